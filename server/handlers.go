package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"ai_copywriter/generator"
	"ai_copywriter/publisher"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// specRequest is the form state posted by clients. Traits not listed keep their defaults.
type specRequest struct {
	CopyType string          `json:"copy_type" binding:"required"`
	Length   string          `json:"length" binding:"required"`
	Country  string          `json:"country" binding:"required"`
	Traits   map[string]int  `json:"traits"`
	Brief    generator.Brief `json:"brief"`
}

func (r specRequest) toSpec() (generator.Spec, error) {
	ct, err := generator.ParseCopyType(r.CopyType)
	if err != nil {
		return generator.Spec{}, err
	}
	length, ok := generator.LookupLength(r.Length)
	if !ok {
		return generator.Spec{}, fmt.Errorf("%w: unknown length %q", generator.ErrInvalidSpec, r.Length)
	}
	country, err := generator.ParseCountry(r.Country)
	if err != nil {
		return generator.Spec{}, err
	}
	overrides, err := generator.ParseTraitScores(r.Traits)
	if err != nil {
		return generator.Spec{}, err
	}
	spec := generator.Spec{
		CopyType: ct,
		Length:   length,
		Country:  country,
		Traits:   generator.DefaultTraitScores().Merge(overrides),
		Brief:    r.Brief,
	}
	return spec, spec.Validate()
}

func (s *Server) bindSpec(c *gin.Context) (generator.Spec, bool) {
	var req specRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return generator.Spec{}, false
	}
	spec, err := req.toSpec()
	if err != nil {
		s.handleServiceError(c, err)
		return generator.Spec{}, false
	}
	return spec, true
}

type traitOption struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Default int    `json:"default"`
}

type countryOption struct {
	Name  string                `json:"name"`
	Rules generator.LocaleRules `json:"rules"`
}

func (s *Server) handleOptions(c *gin.Context) {
	defaults := generator.DefaultTraitScores()
	traits := make([]traitOption, 0, len(generator.Traits))
	for _, t := range generator.Traits {
		traits = append(traits, traitOption{Key: string(t), Label: t.Label(), Default: defaults[t]})
	}
	copyTypes := make([]gin.H, 0, len(generator.CopyTypes))
	for _, ct := range generator.CopyTypes {
		copyTypes = append(copyTypes, gin.H{"key": string(ct), "label": ct.String(), "sections": ct.Sections()})
	}
	countries := make([]countryOption, 0, len(generator.Countries))
	for _, ct := range generator.Countries {
		rules, _ := ct.Rules()
		countries = append(countries, countryOption{Name: string(ct), Rules: rules})
	}
	c.JSON(http.StatusOK, gin.H{
		"copy_types": copyTypes,
		"lengths":    generator.LengthBuckets,
		"countries":  countries,
		"traits":     traits,
		"formats":    publisher.Formats,
	})
}

func (s *Server) handleSessionCreate(c *gin.Context) {
	spec, ok := s.bindSpec(c)
	if !ok {
		return
	}
	id := newSessionID()
	sess := generator.NewSession(id, spec, s.agent)

	ctx, cancel := s.withTimeout(c)
	defer cancel()
	if _, err := sess.Propose(ctx); err != nil {
		s.handleServiceError(c, err)
		return
	}
	s.store.set(id, sess)
	s.logger.Info("session created", zap.String("session_id", id))
	c.JSON(http.StatusCreated, sess.Snapshot())
}

func (s *Server) handleSessionGet(c *gin.Context, sess *generator.Session) {
	c.JSON(http.StatusOK, sess.Snapshot())
}

func (s *Server) handleSessionUpdate(c *gin.Context, sess *generator.Session) {
	spec, ok := s.bindSpec(c)
	if !ok {
		return
	}
	ctx, cancel := s.withTimeout(c)
	defer cancel()
	if _, err := sess.Update(ctx, spec); err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

func (s *Server) handleSessionDelete(c *gin.Context) {
	if !s.store.delete(c.Param("id")) {
		s.handleServiceError(c, fmt.Errorf("%w: %s", errSessionNotFound, c.Param("id")))
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSessionClear(c *gin.Context, sess *generator.Session) {
	if err := sess.Clear(); err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

type variantsRequest struct {
	Count int `json:"count" binding:"omitempty,min=1,max=20"`
}

func (s *Server) handleVariants(c *gin.Context, sess *generator.Session) {
	var req variantsRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		s.badRequest(c, err)
		return
	}
	if req.Count == 0 {
		req.Count = s.opts.VariantCount
	}
	ctx, cancel := s.withTimeout(c)
	defer cancel()
	v, err := sess.Variants(ctx, req.Count)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (s *Server) handleCritique(c *gin.Context, sess *generator.Session) {
	ctx, cancel := s.withTimeout(c)
	defer cancel()
	critique, err := sess.Critique(ctx)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"critique": critique})
}

type adaptRequest struct {
	Text   string `json:"text"`
	Source string `json:"source" binding:"required"`
	Target string `json:"target" binding:"required"`
}

func (r adaptRequest) countries() (generator.Country, generator.Country, error) {
	source, err := generator.ParseCountry(r.Source)
	if err != nil {
		return "", "", err
	}
	target, err := generator.ParseCountry(r.Target)
	if err != nil {
		return "", "", err
	}
	return source, target, nil
}

func (s *Server) handleSessionAdapt(c *gin.Context, sess *generator.Session) {
	var req adaptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	source, target, err := req.countries()
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	ctx, cancel := s.withTimeout(c)
	defer cancel()
	out, err := sess.Adapt(ctx, req.Text, source, target)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"copy": out, "source": source, "target": target})
}

// handleAdaptText adapts pasted copy without a session.
func (s *Server) handleAdaptText(c *gin.Context) {
	var req adaptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	source, target, err := req.countries()
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	ctx, cancel := s.withTimeout(c)
	defer cancel()
	out, err := s.agent.Adapt(ctx, req.Text, source, target)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"copy": out, "source": source, "target": target})
}

func (s *Server) handleExport(c *gin.Context, sess *generator.Session) {
	format, err := publisher.ParseFormat(c.DefaultQuery("format", "md"))
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	text := sess.Draft().Copy
	if c.Query("source") == "adapted" {
		text = sess.Adapted()
	}
	if strings.TrimSpace(text) == "" {
		s.handleServiceError(c, generator.ErrNoDraft)
		return
	}
	doc := publisher.NewDocument(text, "")
	data, err := publisher.Render(doc, format)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, doc.Filename(format)))
	c.Data(http.StatusOK, format.ContentType(), data)
}

// handleGenerateStream streams a one-off generation as server-sent events: "chunk" events with
// partial text, then a single "draft" or "error" event.
func (s *Server) handleGenerateStream(c *gin.Context) {
	spec, ok := s.bindSpec(c)
	if !ok {
		return
	}
	ctx, cancel := s.withTimeout(c)
	defer cancel()

	ds, err := s.agent.GenerateStream(ctx, spec, "")
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	chunks := ds.Chunks()
	clientGone := c.Stream(func(w io.Writer) bool {
		chunk, open := <-chunks
		if !open {
			return false
		}
		c.SSEvent("chunk", chunk)
		return true
	})
	if clientGone {
		cancel()
		for range chunks {
		}
		s.logger.Info("stream client disconnected")
		return
	}

	draft, err := ds.Result()
	if err != nil {
		s.logger.Warn("stream generation failed", zap.Error(err))
		c.SSEvent("error", gin.H{"message": err.Error()})
		return
	}
	c.SSEvent("draft", draft)
}
