// Package phone normalizes Russian mobile numbers written in a handful of
// common layouts.
package phone

import (
	"regexp"
	"strconv"
)

// DefaultAreaCodes are the area codes accepted when none are configured.
var DefaultAreaCodes = []int{982, 986, 912, 934}

// Accepted layouts. Each captures the area code, the three-digit exchange and
// the last four digits as two pairs.
var layouts = []*regexp.Regexp{
	regexp.MustCompile(`^\+7 (\d{3}) (\d{3}) (\d{2})(\d{2})$`),
	regexp.MustCompile(`^\+7 (\d{3}) (\d{3}) (\d{2}) (\d{2})$`),
	regexp.MustCompile(`^\+7 \((\d{3})\) (\d{3})-(\d{2})(\d{2})$`),
	regexp.MustCompile(`^\+7(\d{3})(\d{3})(\d{2})(\d{2})$`),
	regexp.MustCompile(`^8 (\d{3}) (\d{3}) (\d{2})(\d{2})$`),
	regexp.MustCompile(`^8 (\d{3}) (\d{3}) (\d{2}) (\d{2})$`),
	regexp.MustCompile(`^8 \((\d{3})\) (\d{3})-(\d{2})(\d{2})$`),
	regexp.MustCompile(`^8(\d{3})(\d{3})(\d{2})(\d{2})$`),
}

// Parser formats numbers whose area code is in an allowed set.
// It is safe for concurrent use.
type Parser struct {
	areaCodes map[int]struct{}
}

// NewParser returns a parser accepting the given area codes, or
// DefaultAreaCodes when none are given.
func NewParser(areaCodes ...int) *Parser {
	if len(areaCodes) == 0 {
		areaCodes = DefaultAreaCodes
	}
	p := &Parser{areaCodes: make(map[int]struct{}, len(areaCodes))}
	for _, code := range areaCodes {
		p.areaCodes[code] = struct{}{}
	}
	return p
}

// Parse returns raw as "+7-AAA-BBB-CCDD". ok is false when raw matches no
// accepted layout or its area code is not allowed.
func (p *Parser) Parse(raw string) (formatted string, ok bool) {
	m := match(raw)
	if m == nil {
		return "", false
	}
	code, err := strconv.Atoi(m[1])
	if err != nil {
		return "", false
	}
	if _, allowed := p.areaCodes[code]; !allowed {
		return "", false
	}
	return "+7-" + m[1] + "-" + m[2] + "-" + m[3] + m[4], true
}

func match(raw string) []string {
	for _, re := range layouts {
		if m := re.FindStringSubmatch(raw); m != nil {
			return m
		}
	}
	return nil
}
