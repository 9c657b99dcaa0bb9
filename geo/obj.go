package geo

import (
	"bufio"
	"io"
	"strconv"
)

// WriteOBJ writes each vertex of tris as a "v x y z w" record followed by
// its "vt u v" record. The output is readable by the mesh package.
func WriteOBJ(w io.Writer, tris []Triangle) error {
	bw := bufio.NewWriter(w)
	var buf []byte
	for _, t := range tris {
		for _, v := range t {
			buf = appendRecord(buf[:0], "v", v.Position[:])
			buf = appendRecord(buf, "vt", v.UV[:])
			if _, err := bw.Write(buf); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

func appendRecord(buf []byte, kind string, cs []float32) []byte {
	buf = append(buf, kind...)
	for _, c := range cs {
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, float64(c), 'f', 6, 32)
	}
	return append(buf, '\n')
}
