package compression

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFromPath(t *testing.T) {
	tests := []struct {
		path     string
		wantAlg  Algorithm
		wantPath string
	}{
		{"data.csv.gz", Gzip, "data.csv"},
		{"data.csv.zst", Zstd, "data.csv"},
		{"data.json.lz4", LZ4, "data.json"},
		{"data.csv.snappy", Snappy, "data.csv"},
		{"data.csv.sz", Snappy, "data.csv"},
		{"data.csv", None, "data.csv"},
		{"archive.GZ", Gzip, "archive"},
	}
	for _, tt := range tests {
		alg, inner := DetectFromPath(tt.path)
		assert.Equal(t, tt.wantAlg, alg, tt.path)
		assert.Equal(t, tt.wantPath, inner, tt.path)
	}
}

func TestParse(t *testing.T) {
	for name, want := range map[string]Algorithm{
		"":     None,
		"none": None,
		"gz":   Gzip,
		"gzip": Gzip,
		"zstd": Zstd,
		"lz4":  LZ4,
	} {
		got, err := Parse(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := Parse("brotli")
	assert.Error(t, err)
}

func TestRoundTripAllAlgorithms(t *testing.T) {
	payload := strings.Repeat("id,name,amount\n1,ana,10.5\n", 500)

	for _, alg := range []Algorithm{None, Gzip, Zstd, LZ4, Snappy} {
		t.Run(string(alg), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := WrapWriter(&buf, alg)
			require.NoError(t, err)
			_, err = io.WriteString(w, payload)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			r, err := WrapReader(bytes.NewReader(buf.Bytes()), alg)
			require.NoError(t, err)
			got, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, r.Close())

			assert.Equal(t, payload, string(got))
			if alg != None {
				assert.Less(t, buf.Len(), len(payload))
			}
		})
	}
}
