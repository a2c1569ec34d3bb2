// Package phpserialize decodes values written by PHP's serialize(), as
// found in WordPress post meta.
package phpserialize

import (
	"strconv"
	"strings"

	"github.com/sleroq/wordpress-to-yaml/internal/domain/wordpress"
)

// Tags lists the type letters that may start a serialized value.
const Tags = "asOidbN"

// LooksSerialized reports whether s starts like a serialized value: a known
// type letter followed by a colon. It does not validate the rest.
func LooksSerialized(s string) bool {
	return len(s) > 2 && strings.IndexByte(Tags, s[0]) >= 0 && s[1] == ':'
}

// Decode parses one serialized value. Arrays and objects become ordered
// mappings with their original keys; callers decide whether to normalize
// them into sequences. Data after the first complete value is ignored.
func Decode(s string) (wordpress.Value, error) {
	d := decoder{buf: s}
	return d.value()
}

type decoder struct {
	buf string
	pos int
}

func (d *decoder) fail(reason string) error {
	return &DecodeError{Offset: d.pos, Reason: reason}
}

func (d *decoder) value() (wordpress.Value, error) {
	if d.pos >= len(d.buf) {
		return nil, d.fail("unexpected end of data")
	}
	tag := d.buf[d.pos]
	switch tag {
	case 'N':
		d.pos++
		if err := d.expect(';'); err != nil {
			return nil, err
		}
		return wordpress.Null{}, nil
	case 's':
		s, err := d.stringValue()
		if err != nil {
			return nil, err
		}
		return wordpress.String(s), nil
	case 'i':
		d.pos++
		if err := d.expect(':'); err != nil {
			return nil, err
		}
		lit, err := d.until(';')
		if err != nil {
			return nil, err
		}
		n, perr := strconv.ParseInt(lit, 10, 64)
		if perr != nil {
			return nil, d.fail("malformed integer " + strconv.Quote(lit))
		}
		return wordpress.Int(n), nil
	case 'd':
		d.pos++
		if err := d.expect(':'); err != nil {
			return nil, err
		}
		lit, err := d.until(';')
		if err != nil {
			return nil, err
		}
		return floatScalar(d, lit)
	case 'b':
		d.pos++
		if err := d.expect(':'); err != nil {
			return nil, err
		}
		lit, err := d.until(';')
		if err != nil {
			return nil, err
		}
		switch lit {
		case "0":
			return wordpress.Bool(false), nil
		case "1":
			return wordpress.Bool(true), nil
		default:
			return nil, d.fail("malformed boolean " + strconv.Quote(lit))
		}
	case 'a':
		d.pos++
		if err := d.expect(':'); err != nil {
			return nil, err
		}
		count, err := d.length()
		if err != nil {
			return nil, err
		}
		return d.members(count, false)
	case 'O':
		d.pos++
		if err := d.expect(':'); err != nil {
			return nil, err
		}
		if _, err := d.quoted(); err != nil {
			return nil, err
		}
		if err := d.expect(':'); err != nil {
			return nil, err
		}
		count, err := d.length()
		if err != nil {
			return nil, err
		}
		return d.members(count, true)
	default:
		return nil, d.fail("unknown type tag " + strconv.QuoteRune(rune(tag)))
	}
}

func floatScalar(d *decoder, lit string) (wordpress.Value, error) {
	switch lit {
	case "INF", "-INF", "NAN":
		return wordpress.Scalar{Text: lit, Type: wordpress.ScalarFloat}, nil
	}
	if _, err := strconv.ParseFloat(lit, 64); err != nil {
		return nil, d.fail("malformed float " + strconv.Quote(lit))
	}
	return wordpress.Scalar{Text: lit, Type: wordpress.ScalarFloat}, nil
}

// stringValue reads s:<len>:"<bytes>"; where len counts bytes.
func (d *decoder) stringValue() (string, error) {
	d.pos++
	if err := d.expect(':'); err != nil {
		return "", err
	}
	s, err := d.quoted()
	if err != nil {
		return "", err
	}
	if err := d.expect(';'); err != nil {
		return "", err
	}
	return s, nil
}

// quoted reads <len>:"<bytes>" and returns the bytes.
func (d *decoder) quoted() (string, error) {
	n, err := d.length()
	if err != nil {
		return "", err
	}
	if err := d.expect('"'); err != nil {
		return "", err
	}
	if n > len(d.buf)-d.pos {
		return "", d.fail("string length " + strconv.Itoa(n) + " exceeds remaining data")
	}
	s := d.buf[d.pos : d.pos+n]
	d.pos += n
	if err := d.expect('"'); err != nil {
		return "", err
	}
	return s, nil
}

// length reads an unsigned decimal terminated by ':'.
func (d *decoder) length() (int, error) {
	lit, err := d.until(':')
	if err != nil {
		return 0, err
	}
	if lit == "" {
		return 0, d.fail("missing length prefix")
	}
	for i := 0; i < len(lit); i++ {
		if lit[i] < '0' || lit[i] > '9' {
			return 0, d.fail("malformed length prefix " + strconv.Quote(lit))
		}
	}
	n, perr := strconv.Atoi(lit)
	if perr != nil {
		return 0, d.fail("malformed length prefix " + strconv.Quote(lit))
	}
	return n, nil
}

func (d *decoder) members(count int, object bool) (wordpress.Value, error) {
	if err := d.expect('{'); err != nil {
		return nil, err
	}
	out := make(wordpress.Mapping, 0, min(count, 64))
	// Later duplicates replace the earlier value in place.
	pos := make(map[string]int, min(count, 64))
	for i := 0; i < count; i++ {
		key, err := d.key(object)
		if err != nil {
			return nil, err
		}
		v, err := d.value()
		if err != nil {
			return nil, err
		}
		if j, ok := pos[key.Text]; ok {
			out[j].Value = v
			continue
		}
		pos[key.Text] = len(out)
		out = append(out, wordpress.Entry{Key: key, Value: v})
	}
	if d.pos >= len(d.buf) {
		return nil, d.fail("unbalanced braces: missing '}'")
	}
	if d.buf[d.pos] != '}' {
		return nil, d.fail("unbalanced braces: expected '}' after " + strconv.Itoa(count) + " members")
	}
	d.pos++
	return out, nil
}

func (d *decoder) key(object bool) (wordpress.Scalar, error) {
	if d.pos >= len(d.buf) {
		return wordpress.Scalar{}, d.fail("unexpected end of data in key")
	}
	switch d.buf[d.pos] {
	case 'i':
		v, err := d.value()
		if err != nil {
			return wordpress.Scalar{}, err
		}
		return v.(wordpress.Scalar), nil
	case 's':
		s, err := d.stringValue()
		if err != nil {
			return wordpress.Scalar{}, err
		}
		if object {
			s = memberName(s)
		}
		return wordpress.String(s), nil
	default:
		return wordpress.Scalar{}, d.fail("invalid key type " + strconv.QuoteRune(rune(d.buf[d.pos])))
	}
}

// memberName strips the NUL-delimited visibility prefix PHP writes for
// protected ("\0*\0name") and private ("\0Class\0name") properties.
func memberName(s string) string {
	if len(s) == 0 || s[0] != 0 {
		return s
	}
	if i := strings.IndexByte(s[1:], 0); i >= 0 {
		return s[i+2:]
	}
	return s
}

func (d *decoder) expect(c byte) error {
	if d.pos >= len(d.buf) {
		return d.fail("unexpected end of data, expected " + strconv.QuoteRune(rune(c)))
	}
	if d.buf[d.pos] != c {
		return d.fail("expected " + strconv.QuoteRune(rune(c)) + ", found " + strconv.QuoteRune(rune(d.buf[d.pos])))
	}
	d.pos++
	return nil
}

// until returns the bytes before the next c and moves past c.
func (d *decoder) until(c byte) (string, error) {
	i := strings.IndexByte(d.buf[d.pos:], c)
	if i < 0 {
		return "", d.fail("unexpected end of data, expected " + strconv.QuoteRune(rune(c)))
	}
	s := d.buf[d.pos : d.pos+i]
	d.pos += i + 1
	return s, nil
}
