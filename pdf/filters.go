package pdf

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
)

const maxDecodedBytes = 1 << 28

// decodeStream applies the stream's filter chain. Image codecs are not
// decoded here; when one is reached the remaining bytes are returned
// together with the filter name so callers can pick an image decoder.
func (d *Document) decodeStream(s *Stream) ([]byte, Name, error) {
	filters := filterList(d, d.Resolve(s.Header["Filter"]))
	parms := parmsList(d, d.Resolve(s.Header["DecodeParms"]), len(filters))
	data := s.Raw
	for i, f := range filters {
		switch f {
		case "FlateDecode", "Fl":
			dec, err := flateDecode(data)
			if err != nil {
				return nil, "", fmt.Errorf("flate: %w", err)
			}
			dec, err = unpredict(d, dec, parms[i])
			if err != nil {
				return nil, "", err
			}
			data = dec
		default:
			return data, f, nil
		}
	}
	return data, "", nil
}

func filterList(d *Document, obj Object) []Name {
	switch v := obj.(type) {
	case Name:
		return []Name{v}
	case Array:
		names := make([]Name, 0, len(v))
		for _, item := range v {
			if n, ok := d.name(item); ok {
				names = append(names, n)
			}
		}
		return names
	}
	return nil
}

func parmsList(d *Document, obj Object, n int) []Dict {
	out := make([]Dict, n)
	switch v := obj.(type) {
	case Dict:
		if n > 0 {
			out[0] = v
		}
	case Array:
		for i := 0; i < n && i < len(v); i++ {
			out[i] = d.dict(v[i])
		}
	}
	return out
}

// flateDecode inflates zlib data, retrying as a raw deflate stream for
// files written without the zlib wrapper.
func flateDecode(data []byte) ([]byte, error) {
	if r, err := zlib.NewReader(bytes.NewReader(data)); err == nil {
		out, err := readCapped(r)
		r.Close()
		if err == nil {
			return out, nil
		}
	}
	fr := flate.NewReader(bytes.NewReader(data))
	defer fr.Close()
	return readCapped(fr)
}

func readCapped(r io.Reader) ([]byte, error) {
	out, err := io.ReadAll(io.LimitReader(r, maxDecodedBytes+1))
	if err != nil {
		return nil, err
	}
	if len(out) > maxDecodedBytes {
		return nil, errors.New("decoded stream too large")
	}
	return out, nil
}

// unpredict reverses the PNG row predictors named by /DecodeParms.
func unpredict(d *Document, data []byte, parms Dict) ([]byte, error) {
	if parms == nil {
		return data, nil
	}
	pred, _ := d.integer(parms["Predictor"])
	if pred < 2 {
		return data, nil
	}
	if pred == 2 {
		return nil, errors.New("tiff predictor not supported")
	}
	columns := int64(1)
	if v, ok := d.integer(parms["Columns"]); ok && v > 0 {
		columns = v
	}
	colors := int64(1)
	if v, ok := d.integer(parms["Colors"]); ok && v > 0 {
		colors = v
	}
	bpc := int64(8)
	if v, ok := d.integer(parms["BitsPerComponent"]); ok && v > 0 {
		bpc = v
	}
	rowLen := int((columns*colors*bpc + 7) / 8)
	bpp := int(colors*bpc+7) / 8
	if bpp < 1 {
		bpp = 1
	}
	stride := rowLen + 1
	if rowLen <= 0 || len(data)%stride != 0 {
		return nil, errors.New("predictor row size mismatch")
	}
	out := make([]byte, 0, len(data)/stride*rowLen)
	prev := make([]byte, rowLen)
	row := make([]byte, rowLen)
	for pos := 0; pos < len(data); pos += stride {
		tag := data[pos]
		copy(row, data[pos+1:pos+stride])
		switch tag {
		case 0:
		case 1: // Sub
			for i := bpp; i < rowLen; i++ {
				row[i] += row[i-bpp]
			}
		case 2: // Up
			for i := 0; i < rowLen; i++ {
				row[i] += prev[i]
			}
		case 3: // Average
			for i := 0; i < rowLen; i++ {
				left := 0
				if i >= bpp {
					left = int(row[i-bpp])
				}
				row[i] += byte((left + int(prev[i])) / 2)
			}
		case 4: // Paeth
			for i := 0; i < rowLen; i++ {
				var left, upLeft byte
				if i >= bpp {
					left = row[i-bpp]
					upLeft = prev[i-bpp]
				}
				row[i] += paeth(left, prev[i], upLeft)
			}
		default:
			return nil, fmt.Errorf("unknown predictor tag %d", tag)
		}
		out = append(out, row...)
		copy(prev, row)
	}
	return out, nil
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	switch {
	case pa <= pb && pa <= pc:
		return a
	case pb <= pc:
		return b
	}
	return c
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
