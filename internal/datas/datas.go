// Package datas implements the civil-date type shared by every record.
// Dates travel as "YYYY-MM-DD" strings; the empty string means "no date".
package datas

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	LayoutISO = "2006-01-02"
	LayoutBR  = "02/01/2006"
)

// excelEpochOffset is the number of days between the spreadsheet epoch
// (1899-12-30) and the Unix epoch.
const excelEpochOffset = 25569

var ErrDataInvalida = errors.New("data invalida")

// Data is a calendar date without time zone, encoded as YYYY-MM-DD.
type Data string

// Parse accepts YYYY-MM-DD (a trailing time part is ignored) or DD/MM/YYYY.
func Parse(s string) (Data, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if strings.Contains(s, "/") {
		t, err := time.Parse(LayoutBR, s)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrDataInvalida, s)
		}
		return DeTime(t), nil
	}
	if len(s) > len(LayoutISO) {
		s = s[:len(LayoutISO)]
	}
	t, err := time.Parse(LayoutISO, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrDataInvalida, s)
	}
	return DeTime(t), nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) Data {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func DeTime(t time.Time) Data { return Data(t.Format(LayoutISO)) }

// Hoje returns the current date in loc (UTC when loc is nil).
func Hoje(loc *time.Location) Data {
	if loc == nil {
		loc = time.UTC
	}
	return DeTime(time.Now().In(loc))
}

// DeSerialPlanilha converts a spreadsheet serial day number into a date.
func DeSerialPlanilha(serial float64) Data {
	dias := int(serial) - excelEpochOffset
	return DeTime(time.Unix(0, 0).UTC().AddDate(0, 0, dias))
}

func (d Data) Vazia() bool { return d == "" }

func (d Data) String() string { return string(d) }

// Time returns midnight UTC of the date. The zero time is returned for an empty date.
func (d Data) Time() time.Time {
	if d == "" {
		return time.Time{}
	}
	t, err := time.Parse(LayoutISO, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// FormatBR renders the date as DD/MM/YYYY, or "" when empty.
func (d Data) FormatBR() string {
	if d == "" {
		return ""
	}
	return d.Time().Format(LayoutBR)
}

// DiasEntre returns the whole number of days from a to b (negative when b < a).
func DiasEntre(a, b Data) int {
	return int(b.Time().Sub(a.Time()).Hours() / 24)
}

// Scan implements sql.Scanner.
func (d *Data) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*d = ""
	case time.Time:
		*d = DeTime(v)
	case string:
		p, err := Parse(v)
		if err != nil {
			return err
		}
		*d = p
	case []byte:
		p, err := Parse(string(v))
		if err != nil {
			return err
		}
		*d = p
	default:
		return fmt.Errorf("datas: cannot scan %T", value)
	}
	return nil
}

// Value implements driver.Valuer. Empty dates are stored as NULL.
func (d Data) Value() (driver.Value, error) {
	if d == "" {
		return nil, nil
	}
	return string(d), nil
}

func (Data) GormDataType() string { return "date" }
