package io

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path"
	"strings"
	"sync"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecopia-map/shapecloud/internal/data"
)

var testVerts = []Vertex{
	{X: 1, Y: -2, Z: 0.5, R: 249, G: 115, B: 22},
	{X: 0, Y: 0, Z: 0, R: 1, G: 2, B: 3},
}

func TestParsePlyFormat(t *testing.T) {
	assert.Equal(t, PlyASCII, ParsePlyFormat(" ASCII"))
	assert.Equal(t, PlyBinary, ParsePlyFormat("binary"))
	assert.Equal(t, PlyFormat(""), ParsePlyFormat("draco"))
}

func TestWritePlyASCII(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePly(&buf, PlyASCII, []string{"class box"}, testVerts))

	expected := "ply\nformat ascii 1.0\ncomment class box\nelement vertex 2\n" +
		"property float x\nproperty float y\nproperty float z\n" +
		"property uchar red\nproperty uchar green\nproperty uchar blue\nend_header\n" +
		"1 -2 0.5 249 115 22\n0 0 0 1 2 3\n"
	assert.Equal(t, expected, buf.String())
}

func TestWritePlyBinary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePly(&buf, PlyBinary, nil, testVerts))

	content := buf.Bytes()
	marker := []byte("end_header\n")
	idx := bytes.Index(content, marker)
	require.True(t, idx > 0)
	assert.True(t, strings.Contains(string(content[:idx]), "format binary_little_endian 1.0"))

	body := content[idx+len(marker):]
	require.Len(t, body, 15*len(testVerts))
	assert.Equal(t, float32(-2), math.Float32frombits(binary.LittleEndian.Uint32(body[4:8])))
	assert.Equal(t, []byte{249, 115, 22}, body[12:15])
}

func TestClassColor(t *testing.T) {
	r, g, b := ClassColor("box")
	assert.Equal(t, []uint8{0x3b, 0x82, 0xf6}, []uint8{r, g, b})

	r, g, b = ClassColor("class-9")
	assert.Equal(t, []uint8{0xe6, 0xed, 0xf3}, []uint8{r, g, b})
}

func TestProducerConsumerWritesOneFilePerSample(t *testing.T) {
	out := t.TempDir()
	ds := data.NewDataset("ds-1", []string{"box", "cone"}, 0)
	ds.Append(data.Cloud{r3.Vector{X: 1}, r3.Vector{Y: 1}}, 0)
	ds.Append(data.Cloud{r3.Vector{Z: 1}, r3.Vector{}}, 1)
	ds.Append(data.Cloud{r3.Vector{X: 2}, r3.Vector{}}, 1)

	work := make(chan *WorkUnit, 2)
	errs := make(chan error, 4)
	var wg sync.WaitGroup

	wg.Add(1)
	go NewStandardProducer(out, "export").Produce(work, &wg, ds)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go NewStandardConsumer(PlyASCII).Consume(work, errs, &wg)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	for i, class := range []string{"box", "cone", "cone"} {
		content, err := os.ReadFile(path.Join(out, "export", class, SampleFileName(i)))
		require.NoError(t, err)
		assert.Contains(t, string(content), "comment dataset ds-1")
		assert.Contains(t, string(content), "element vertex 2")
	}
}

func TestManifestRoundTrip(t *testing.T) {
	out := t.TempDir()
	ds := data.NewDataset("ds-2", []string{"box", "cone"}, 0)
	ds.Append(data.Cloud{r3.Vector{}}, 1)
	ds.Append(data.Cloud{r3.Vector{}}, 1)
	ds.Append(data.Cloud{r3.Vector{}}, 0)

	require.NoError(t, WriteManifest(out, NewManifest(ds, map[string]string{"seed": "4"})))
	m, err := ReadManifest(out)
	require.NoError(t, err)

	assert.Equal(t, "ds-2", m.DatasetID)
	assert.Equal(t, map[string]int{"box": 1, "cone": 2}, m.SamplesByClass)
	require.Len(t, m.Files, 3)
	assert.Equal(t, path.Join("cone", SampleFileName(1)), m.Files[1].Path)
	assert.Equal(t, "4", m.Params["seed"])
}
