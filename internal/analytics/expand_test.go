package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sopulse/internal/dataset"
)

func rec(year int, workMode string) dataset.SurveyRecord {
	r := dataset.SurveyRecord{Year: year}
	if workMode != "" {
		r.WorkMode = dataset.String(workMode)
	}
	return r
}

func TestExpandField(t *testing.T) {
	records := []dataset.SurveyRecord{
		{
			Year:                 2021,
			WorkMode:             dataset.String("remote"),
			FrameworksWorkedWith: dataset.String("React; Vue.js,Angular"),
		},
	}

	got := ExpandField(records, FrameworksField)

	require.Len(t, got, 3)
	assert.Equal(t, "React", got[0].Value)
	assert.Equal(t, "Vue.js", got[1].Value)
	assert.Equal(t, "Angular", got[2].Value)

	// Every produced observation carries the full source record.
	for _, o := range got {
		assert.Equal(t, 2021, o.Record.Year)
		assert.Equal(t, dataset.String("remote"), o.Record.WorkMode)
	}
}

func TestExpandField_AllDelimiters(t *testing.T) {
	records := []dataset.SurveyRecord{
		{Year: 2020, LanguagesWorkedWith: dataset.String("Go;Python|Rust/Zig,C")},
	}

	got := ExpandField(records, LanguagesField)

	require.Len(t, got, 5)
	tokens := make([]string, len(got))
	for i, o := range got {
		tokens[i] = o.Value
	}
	assert.Equal(t, []string{"Go", "Python", "Rust", "Zig", "C"}, tokens)
}

func TestExpandField_MissingAndEmptyTokens(t *testing.T) {
	records := []dataset.SurveyRecord{
		{Year: 2020}, // missing answer, zero observations
		{Year: 2021, LanguagesWorkedWith: dataset.String(" ; Go ;; ")},
	}

	got := ExpandField(records, LanguagesField)

	require.Len(t, got, 1)
	assert.Equal(t, "Go", got[0].Value)
	assert.Equal(t, 2021, got[0].Record.Year)
}

func TestExpandField_PreservesInputRowOrder(t *testing.T) {
	records := []dataset.SurveyRecord{
		{Year: 2019, LanguagesWorkedWith: dataset.String("Go;Rust")},
		{Year: 2020, LanguagesWorkedWith: dataset.String("Python")},
	}

	got := ExpandField(records, LanguagesField)

	require.Len(t, got, 3)
	assert.Equal(t, 2019, got[0].Record.Year)
	assert.Equal(t, 2019, got[1].Record.Year)
	assert.Equal(t, 2020, got[2].Record.Year)
}

func TestSingleField(t *testing.T) {
	records := []dataset.SurveyRecord{
		rec(2020, "remote"),
		rec(2020, ""),
		rec(2021, "hybrid"),
	}

	got := SingleField(records, WorkModeField)

	require.Len(t, got, 2)
	assert.Equal(t, "remote", got[0].Value)
	assert.Equal(t, "hybrid", got[1].Value)
}
