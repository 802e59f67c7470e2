package io

import (
	"bufio"
	"encoding/binary"
	"fmt"
	stdio "io"
	"math"
	"os"
	"strings"
)

type PlyFormat string

const (
	PlyASCII  PlyFormat = "ascii"
	PlyBinary PlyFormat = "binary_little_endian"
)

// Parses a PLY format name, returns "" for unknown values
func ParsePlyFormat(value string) PlyFormat {
	normalizedValue := strings.Trim(strings.ToLower(value), " ")
	switch normalizedValue {
	case "ascii":
		return PlyASCII
	case "binary", "binary_little_endian":
		return PlyBinary
	}
	return ""
}

// A colored PLY vertex
type Vertex struct {
	X, Y, Z float32
	R, G, B uint8
}

// Writes the vertices in a new PLY file at filePath
func WritePlyFile(filePath string, format PlyFormat, comments []string, verts []Vertex) error {
	f, err := os.Create(filePath)
	if err != nil {
		return err
	}

	if err := WritePly(f, format, comments, verts); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Writes a PLY document with a single vertex element
func WritePly(w stdio.Writer, format PlyFormat, comments []string, verts []Vertex) error {
	if format == "" {
		format = PlyASCII
	}
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "ply")
	fmt.Fprintf(bw, "format %s 1.0\n", format)
	for _, c := range comments {
		fmt.Fprintf(bw, "comment %s\n", strings.ReplaceAll(c, "\n", " "))
	}
	fmt.Fprintf(bw, "element vertex %d\n", len(verts))
	for _, axis := range []string{"x", "y", "z"} {
		fmt.Fprintf(bw, "property float %s\n", axis)
	}
	for _, channel := range []string{"red", "green", "blue"} {
		fmt.Fprintf(bw, "property uchar %s\n", channel)
	}
	fmt.Fprintln(bw, "end_header")

	switch format {
	case PlyBinary:
		buf := make([]byte, 15)
		for _, v := range verts {
			binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(v.X))
			binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(v.Y))
			binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(v.Z))
			buf[12], buf[13], buf[14] = v.R, v.G, v.B
			if _, err := bw.Write(buf); err != nil {
				return err
			}
		}
	default:
		for _, v := range verts {
			if _, err := fmt.Fprintf(bw, "%g %g %g %d %d %d\n", v.X, v.Y, v.Z, v.R, v.G, v.B); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}
