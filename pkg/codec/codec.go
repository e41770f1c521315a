package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aretw0/posematch/pkg/domain"
	"github.com/buger/jsonparser"
)

// ContainerField is the name of the field holding the matrix array.
const ContainerField = "datas"

// fieldNames lists the component keys in serialization order (row by row).
var fieldNames = func() [16]string {
	var names [16]string
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			names[r*4+c] = "m" + strconv.Itoa(r) + strconv.Itoa(c)
		}
	}
	return names
}()

// fieldIndex maps a component key to its row-major index.
var fieldIndex = func() map[string]int {
	idx := make(map[string]int, len(fieldNames))
	for i, name := range fieldNames {
		idx[name] = i
	}
	return idx
}()

// FieldNames returns the sixteen component keys in serialization order.
func FieldNames() [16]string {
	return fieldNames
}

// Wrap places a bare JSON array inside the container object.
func Wrap(array []byte) []byte {
	out := make([]byte, 0, len(array)+len(ContainerField)+5)
	out = append(out, '{', '"')
	out = append(out, ContainerField...)
	out = append(out, '"', ':')
	out = append(out, array...)
	out = append(out, '}')
	return out
}

// BOM is the UTF-8 byte order mark some editors put at the start of text files.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode parses a matrix document. A bare array is wrapped first.
// A leading byte order mark is ignored.
func Decode(data []byte) (domain.MatrixSet, error) {
	trimmed := clean(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty document", domain.ErrParse)
	}
	switch trimmed[0] {
	case '[':
		return DecodeResource(trimmed)
	case '{':
		return decodeContainer(trimmed)
	default:
		return nil, fmt.Errorf("%w: expected object or array, got %q", domain.ErrParse, trimmed[0])
	}
}

// DecodeResource parses an input resource, which is always a bare array.
func DecodeResource(data []byte) (domain.MatrixSet, error) {
	return decodeContainer(Wrap(clean(data)))
}

func clean(data []byte) []byte {
	return bytes.TrimSpace(bytes.TrimPrefix(data, BOM))
}

func decodeContainer(doc []byte) (domain.MatrixSet, error) {
	if !json.Valid(doc) {
		return nil, fmt.Errorf("%w: malformed JSON", domain.ErrParse)
	}
	if doc[0] != '{' {
		return nil, fmt.Errorf("%w: document is not an object", domain.ErrParse)
	}

	value, dataType, _, err := jsonparser.Get(doc, ContainerField)
	if err != nil {
		return nil, fmt.Errorf("%w: missing %q field", domain.ErrParse, ContainerField)
	}
	if dataType != jsonparser.Array {
		return nil, fmt.Errorf("%w: %q must be an array, got %s", domain.ErrParse, ContainerField, dataType)
	}

	set := domain.MatrixSet{}
	var entryErr error
	_, err = jsonparser.ArrayEach(value, func(entry []byte, dataType jsonparser.ValueType, _ int, err error) {
		if entryErr != nil {
			return
		}
		if err != nil {
			entryErr = err
			return
		}
		if dataType != jsonparser.Object {
			entryErr = fmt.Errorf("entry %d is %s, expected object", len(set), dataType)
			return
		}
		t, err := decodeEntry(entry)
		if err != nil {
			entryErr = fmt.Errorf("entry %d: %w", len(set), err)
			return
		}
		set = append(set, t)
	})
	if err == nil {
		err = entryErr
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	return set, nil
}

func decodeEntry(entry []byte) (domain.Transform, error) {
	var rows [16]float32
	var seen [16]bool

	err := jsonparser.ObjectEach(entry, func(key []byte, value []byte, dataType jsonparser.ValueType, _ int) error {
		i, ok := fieldIndex[string(key)]
		if !ok {
			return nil
		}
		if dataType != jsonparser.Number {
			return fmt.Errorf("field %s is %s, expected number", key, dataType)
		}
		f, err := strconv.ParseFloat(string(value), 32)
		if err != nil {
			return fmt.Errorf("field %s: %w", key, err)
		}
		rows[i] = float32(f)
		seen[i] = true
		return nil
	})
	if err != nil {
		return domain.Transform{}, err
	}

	for i, ok := range seen {
		if !ok {
			return domain.Transform{}, fmt.Errorf("missing field %s", fieldNames[i])
		}
	}
	return domain.FromRows(rows), nil
}

// Encode serializes the set as one container document.
// Components use the shortest text that parses back to the same float32.
func Encode(set domain.MatrixSet) ([]byte, error) {
	buf := make([]byte, 0, 16+len(set)*256)
	buf = append(buf, `{"`...)
	buf = append(buf, ContainerField...)
	buf = append(buf, `":[`...)
	for i, t := range set {
		if !t.IsFinite() {
			return nil, fmt.Errorf("%w: entry %d", domain.ErrNonFinite, i)
		}
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = appendEntry(buf, t)
	}
	buf = append(buf, "]}"...)
	return buf, nil
}

func appendEntry(buf []byte, t domain.Transform) []byte {
	rows := t.Rows()
	buf = append(buf, '{')
	for i, name := range fieldNames {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, '"')
		buf = append(buf, name...)
		buf = append(buf, '"', ':')
		buf = strconv.AppendFloat(buf, float64(rows[i]), 'g', -1, 32)
	}
	return append(buf, '}')
}
