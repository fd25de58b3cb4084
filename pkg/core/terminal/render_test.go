package terminal

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grant_finder/pkg/core/errclass"
	"grant_finder/pkg/core/locale"
	"grant_finder/pkg/models"
)

const summary = "# Grants Report\n## Yemen\n### Overview\n- **WFP** food security\nApply: https://wfp.org/apply\n"

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	r := New(models.LangEnglish, 120)
	err := r.Render(&buf, &models.ResearchResult{
		Summary: summary,
		Sources: []models.GroundingSource{{URI: "https://reliefweb.int", Title: "ReliefWeb"}},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Grants Report")
	assert.Contains(t, out, "Overview")
	assert.Contains(t, out, "•")
	assert.Contains(t, out, "WFP")
	assert.Contains(t, out, "https://wfp.org/apply")
	assert.Contains(t, out, "ReliefWeb")
	assert.Contains(t, out, locale.For(models.LangEnglish).Sources)
	assert.NotContains(t, out, "**")
}

func TestRender_Plain(t *testing.T) {
	var buf bytes.Buffer
	r := New(models.LangEnglish, 120)
	r.Plain = true
	require.NoError(t, r.Render(&buf, &models.ResearchResult{Summary: summary}))

	out := buf.String()
	assert.Contains(t, out, "• WFP food security")
	assert.Contains(t, out, "Apply: https://wfp.org/apply")
	assert.NotContains(t, out, "\x1b[")
}

func TestRender_Nil(t *testing.T) {
	assert.Error(t, New(models.LangEnglish, 0).Render(&bytes.Buffer{}, nil))
}

func TestRenderError(t *testing.T) {
	var buf bytes.Buffer
	r := New(models.LangArabic, 0)
	e := errclass.FromCause(errors.New("403 forbidden"), models.LangArabic)
	require.NoError(t, r.RenderError(&buf, e))

	assert.Contains(t, buf.String(), locale.For(models.LangArabic).KeyRequiredTitle)
}
