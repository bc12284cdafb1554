package generator

import "strings"

const emailExample = `### Example Email
**Subject Line:** Last chance to lock in $119 Motley Fool membership  
**Greeting:** Hi Sarah,  
**Body:** Tonight at midnight, your opportunity to save 60 % disappears. Thousands of Australians already rely on our ASX stock tips—now it’s your turn. Click before the timer hits zero and start investing smarter.  
**CTA:** Activate my membership  
**Sign‑off:** The Motley Fool Australia Team`

const salesExample = `### Example Sales Page
## Headline  
One Day Only—Unlock the Silver Pass for $119  

### Introduction  
Imagine having two extra experts on your side every month…

### Key Benefits  
- Double the stock picks, triple the insight  
- ASX, growth & dividend coverage in one pass  
- 400,000+ Aussie investors already on board  

### Detailed Body  
Scroll down and you’ll see why the Silver Pass could be your portfolio’s inflection point. But remember—the $119 price tag vanishes at 11:59 pm tonight.  

### CTA  
**Yes! Secure My Pass Now**`

var skeletons = map[CopyType][]string{
	CopyEmail: {
		"### Subject Line",
		"### Greeting",
		"### Body (benefits, urgency, proofs)",
		"### Call‑to‑Action",
		"### Sign‑off",
	},
	CopySalesPage: {
		"## Headline",
		"### Introduction",
		"### Key Benefit Paragraphs",
		"### Detailed Body",
		"### Call‑to‑Action",
	},
}

// Sections returns the ordered headings a piece of this type must contain.
func (c CopyType) Sections() []string {
	return skeletons[c]
}

// Skeleton renders Sections one per line.
func (c CopyType) Skeleton() string {
	return strings.Join(skeletons[c], "\n")
}

// Example is the one-shot demonstration for the type.
func (c CopyType) Example() string {
	if c == CopySalesPage {
		return salesExample
	}
	return emailExample
}
