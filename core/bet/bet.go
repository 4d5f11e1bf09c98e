// Package bet parses and validates dezena wagers: exactly ten distinct
// numbers between 1 and 60, extracted from freeform chat text.
package bet

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	// Count is the number of dezenas a wager must contain.
	Count = 10
	// Min is the lowest accepted dezena.
	Min = 1
	// Max is the highest accepted dezena.
	Max = 60
)

// Reason classifies why a wager text was rejected.
type Reason int

const (
	// WrongCount means the text did not contain exactly ten numbers.
	WrongCount Reason = iota
	// OutOfRange means at least one number fell outside [Min, Max].
	OutOfRange
	// Duplicate means the ten numbers were not all distinct.
	Duplicate
	// Unparsable means no usable text was supplied.
	Unparsable
)

// ValidationError reports a rejected wager with its user-facing message.
type ValidationError struct {
	Reason  Reason
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	// ErrWrongCount rejects texts without exactly ten dezenas.
	ErrWrongCount = &ValidationError{WrongCount, "Você deve informar exatamente 10 dezenas."}
	// ErrOutOfRange rejects dezenas outside the accepted interval.
	ErrOutOfRange = &ValidationError{OutOfRange, "As dezenas devem estar entre 1 e 60."}
	// ErrDuplicate rejects repeated dezenas.
	ErrDuplicate = &ValidationError{Duplicate, "Não repita dezenas."}
	// ErrUnparsable rejects empty or non-textual input.
	ErrUnparsable = &ValidationError{Unparsable, "Use apenas números separados por espaço ou vírgula."}
)

var tokenRe = regexp.MustCompile(`[0-9]{1,2}`)

// Extract returns every maximal one-or-two-digit substring of text as a
// base-10 integer, in order of appearance. No deduplication and no range
// filtering happens here; callers must expect duplicates and out-of-range
// values.
func Extract(text string) []int {
	matches := tokenRe.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}
	nums := make([]int, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		nums = append(nums, n)
	}
	return nums
}

// Validate extracts dezenas from text and applies the wager rules.
// Checks run in a fixed order so each failure mode keeps its own reply:
// count first, then range, then uniqueness. On success the dezenas are
// returned sorted ascending.
func Validate(text string) ([]int, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrUnparsable
	}

	nums := Extract(text)
	if len(nums) != Count {
		return nil, ErrWrongCount
	}
	for _, n := range nums {
		if n < Min || n > Max {
			return nil, ErrOutOfRange
		}
	}
	seen := make(map[int]struct{}, Count)
	for _, n := range nums {
		seen[n] = struct{}{}
	}
	if len(seen) != Count {
		return nil, ErrDuplicate
	}

	out := make([]int, Count)
	copy(out, nums)
	sort.Ints(out)
	return out, nil
}

// Format renders validated dezenas as the canonical display and storage
// string: zero-padded to two digits, joined with ", ".
func Format(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprintf("%02d", n)
	}
	return strings.Join(parts, ", ")
}
