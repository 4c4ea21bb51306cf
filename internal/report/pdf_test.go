package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWritePDF(t *testing.T) {
	pct := 87.5
	m := Matrix{
		Subjects: []string{"Python", "Java"},
		Rows: []MatrixRow{
			{Student: "alice", Percentages: map[string]*float64{"Python": &pct, "Java": nil}, Total: 87.5},
		},
	}

	var buf bytes.Buffer
	err := WritePDF(&buf, m)
	assert.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")), "output must be a PDF document")
	assert.Greater(t, buf.Len(), 500)
}
