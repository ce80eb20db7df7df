package shapefile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/arloliu/geoblob/errs"
	"github.com/jonas-p/go-shp"
	"golang.org/x/text/encoding/charmap"
)

// FieldType is the value type an attribute column decodes to.
type FieldType uint8

const (
	// FieldString holds text decoded per the reader's Encoding; values are string.
	FieldString FieldType = iota
	// FieldBlob holds undecoded text; values are []byte.
	FieldBlob
	// FieldInteger holds numbers narrower than 10 digits without decimals; values are int32.
	FieldInteger
	// FieldBigInt holds numbers narrower than 19 digits without decimals; values are int64.
	FieldBigInt
	// FieldDouble holds every other number; values are float64.
	FieldDouble
	// FieldDate holds YYYYMMDD dates; values are time.Time in UTC.
	FieldDate
	// FieldBoolean holds logical flags; values are bool.
	FieldBoolean
)

func (t FieldType) String() string {
	switch t {
	case FieldString:
		return "VARCHAR"
	case FieldBlob:
		return "BLOB"
	case FieldInteger:
		return "INTEGER"
	case FieldBigInt:
		return "BIGINT"
	case FieldDouble:
		return "DOUBLE"
	case FieldDate:
		return "DATE"
	case FieldBoolean:
		return "BOOLEAN"
	default:
		return fmt.Sprintf("FieldType(%d)", uint8(t))
	}
}

// Field describes one attribute column.
type Field struct {
	Name string
	Type FieldType
}

func normalizeEncodingName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))

	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(name)
}

// detectEncoding resolves EncodingAuto from the first line of the .cpg file. A code page
// other than UTF-8 or Latin-1 yields raw values.
func detectEncoding(base string) (Encoding, error) {
	f, err := os.Open(base + ".cpg")
	if errors.Is(err, os.ErrNotExist) {
		return EncodingLatin1, nil
	}
	if err != nil {
		return EncodingAuto, err
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && line == "" {
		return EncodingRaw, nil //nolint:nilerr
	}

	switch normalizeEncodingName(line) {
	case "utf8":
		return EncodingUTF8, nil
	case "iso88591", "latin1":
		return EncodingLatin1, nil
	default:
		return EncodingRaw, nil
	}
}

// fieldName trims the NUL padding of a DBF field name.
func fieldName(f shp.Field) string {
	b := f.Name[:]
	if n := bytes.IndexByte(b, 0); n >= 0 {
		b = b[:n]
	}

	return strings.TrimSpace(string(b))
}

// fieldType maps a DBF column descriptor to the type its values decode to.
func fieldType(f shp.Field, encoding Encoding) (FieldType, error) {
	switch f.Fieldtype {
	case 'C':
		if encoding == EncodingRaw {
			return FieldBlob, nil
		}
		return FieldString, nil
	case 'N', 'F':
		switch {
		case f.Precision == 0 && f.Size < 10:
			return FieldInteger, nil
		case f.Precision == 0 && f.Size < 19:
			return FieldBigInt, nil
		default:
			return FieldDouble, nil
		}
	case 'D':
		return FieldDate, nil
	case 'L':
		return FieldBoolean, nil
	default:
		return 0, errs.Unsupported(errs.FormatShape, errs.NoOffset, string(rune(f.Fieldtype)), "DBF field type")
	}
}

// newFields resolves the column types and renames repeated names: the second "NAME"
// becomes "NAME_1", the third "NAME_2".
func newFields(defs []shp.Field, encoding Encoding) ([]Field, error) {
	fields := make([]Field, len(defs))
	for i, def := range defs {
		typ, err := fieldType(def, encoding)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		fields[i] = Field{Name: fieldName(def), Type: typ}
	}

	for i := range fields {
		count := 1
		for j := i + 1; j < len(fields); j++ {
			if fields[j].Name == fields[i].Name {
				fields[j].Name = fmt.Sprintf("%s_%d", fields[j].Name, count)
				count++
			}
		}
	}

	return fields, nil
}

// blankValue reports whether a DBF cell holds NULL. Unset numeric cells are padded with
// spaces or asterisks.
func blankValue(value string) bool {
	return strings.Trim(value, " *") == ""
}

// decodeValue converts the raw text of a cell into the Go value of its column type. NULL
// cells of numeric, date and logical columns yield nil.
func decodeValue(value string, typ FieldType, encoding Encoding) (any, error) {
	value = strings.TrimSpace(strings.TrimRight(value, "\x00"))

	switch typ {
	case FieldString:
		return decodeText(value, encoding)
	case FieldBlob:
		return []byte(value), nil
	}

	if blankValue(value) {
		return nil, nil
	}

	switch typ {
	case FieldInteger:
		v, err := parseInteger(value, 32)
		return int32(v), err
	case FieldBigInt:
		return parseInteger(value, 64)
	case FieldDouble:
		return strconv.ParseFloat(value, 64)
	case FieldDate:
		if strings.Trim(value, "0") == "" {
			return nil, nil
		}
		return time.Parse("20060102", value)
	case FieldBoolean:
		switch value {
		case "T", "t", "Y", "y":
			return true, nil
		case "F", "f", "N", "n":
			return false, nil
		default:
			return nil, nil
		}
	default:
		return nil, fmt.Errorf("unknown field type %s", typ)
	}
}

// parseInteger accepts the "12.000" form some writers emit for integral columns and
// truncates it toward zero.
func parseInteger(value string, bitSize int) (int64, error) {
	v, err := strconv.ParseInt(value, 10, bitSize)
	if err == nil {
		return v, nil
	}

	f, ferr := strconv.ParseFloat(value, 64)
	if ferr != nil || math.Trunc(f) < math.MinInt64 || math.Trunc(f) > math.MaxInt64 {
		return 0, err
	}
	if bitSize == 32 && (f < math.MinInt32 || f > math.MaxInt32) {
		return 0, err
	}

	return int64(f), nil
}

func decodeText(value string, encoding Encoding) (string, error) {
	switch encoding {
	case EncodingLatin1:
		return charmap.ISO8859_1.NewDecoder().String(value)
	case EncodingUTF8:
		if !utf8.ValidString(value) {
			return "", fmt.Errorf("attribute %q is not valid UTF-8, try the raw encoding", value)
		}
	}

	return value, nil
}
