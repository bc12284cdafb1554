package cmd

import (
	"fmt"
	"os"

	"ai_copywriter/generator"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// specFlags are the generation inputs shared by generate and prompt.
type specFlags struct {
	copyType  string
	length    string
	country   string
	traits    map[string]int
	briefFile string
	brief     generator.Brief
}

// briefFile is the YAML shape accepted by --brief-file. Flags given explicitly win.
type briefFile struct {
	CopyType string          `yaml:"copy_type"`
	Length   string          `yaml:"length"`
	Country  string          `yaml:"country"`
	Traits   map[string]int  `yaml:"traits"`
	Brief    generator.Brief `yaml:"brief"`
}

func (f *specFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.copyType, "type", "t", "email", "Copy type: email, sales_page")
	fs.StringVarP(&f.length, "length", "l", "medium", "Length: short, medium, long, extra_long, monster")
	fs.StringVar(&f.country, "country", "Australia", "Target market: AU, UK, CA, US")
	fs.StringToIntVar(&f.traits, "trait", nil, "Trait score override, e.g. --trait urgency=9 --trait fomo=4")
	fs.StringVar(&f.briefFile, "brief-file", "", "YAML file with copy_type, length, country, traits and brief")
	fs.StringVar(&f.brief.Hook, "hook", "", "Campaign hook")
	fs.StringVar(&f.brief.Details, "details", "", "Offer details")
	fs.StringVar(&f.brief.OfferPrice, "offer-price", "", "Offer price")
	fs.StringVar(&f.brief.RetailPrice, "retail-price", "", "Retail price")
	fs.StringVar(&f.brief.OfferTerm, "offer-term", "", "Offer term")
	fs.StringVar(&f.brief.Reports, "reports", "", "Bonus reports")
	fs.StringVar(&f.brief.StocksToTease, "stocks", "", "Stocks to tease")
	fs.StringVar(&f.brief.QuotesNews, "quotes", "", "Quotes or news to reference")
}

// spec merges the brief file (if any) with explicitly set flags.
func (f *specFlags) spec(cmd *cobra.Command) (generator.Spec, error) {
	in := briefFile{CopyType: f.copyType, Length: f.length, Country: f.country}
	if f.briefFile != "" {
		data, err := os.ReadFile(f.briefFile)
		if err != nil {
			return generator.Spec{}, fmt.Errorf("read brief: %w", err)
		}
		var file briefFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return generator.Spec{}, fmt.Errorf("parse brief %s: %w", f.briefFile, err)
		}
		changed := cmd.Flags().Changed
		if file.CopyType != "" && !changed("type") {
			in.CopyType = file.CopyType
		}
		if file.Length != "" && !changed("length") {
			in.Length = file.Length
		}
		if file.Country != "" && !changed("country") {
			in.Country = file.Country
		}
		in.Traits = file.Traits
		in.Brief = file.Brief
	}
	in.Brief = mergeBrief(in.Brief, f.brief)

	ct, err := generator.ParseCopyType(in.CopyType)
	if err != nil {
		return generator.Spec{}, err
	}
	length, ok := generator.LookupLength(in.Length)
	if !ok {
		return generator.Spec{}, fmt.Errorf("%w: unknown length %q", generator.ErrInvalidSpec, in.Length)
	}
	country, err := generator.ParseCountry(in.Country)
	if err != nil {
		return generator.Spec{}, err
	}
	fromFile, err := generator.ParseTraitScores(in.Traits)
	if err != nil {
		return generator.Spec{}, err
	}
	fromFlags, err := generator.ParseTraitScores(f.traits)
	if err != nil {
		return generator.Spec{}, err
	}
	// --trait wins over the brief file.
	overrides := fromFile.Merge(fromFlags)
	spec := generator.Spec{
		CopyType: ct,
		Length:   length,
		Country:  country,
		Traits:   generator.DefaultTraitScores().Merge(overrides),
		Brief:    in.Brief,
	}
	return spec, spec.Validate()
}

func mergeBrief(base, flags generator.Brief) generator.Brief {
	pick := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	pick(&base.Hook, flags.Hook)
	pick(&base.Details, flags.Details)
	pick(&base.OfferPrice, flags.OfferPrice)
	pick(&base.RetailPrice, flags.RetailPrice)
	pick(&base.OfferTerm, flags.OfferTerm)
	pick(&base.Reports, flags.Reports)
	pick(&base.StocksToTease, flags.StocksToTease)
	pick(&base.QuotesNews, flags.QuotesNews)
	return base
}
