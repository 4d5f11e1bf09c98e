package bet

import (
	"errors"
	"reflect"
	"testing"
)

func TestValidateSortsAscending(t *testing.T) {
	nums, err := Validate("1 6 12 23 30 34 41 45 52 60")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	want := []int{1, 6, 12, 23, 30, 34, 41, 45, 52, 60}
	if !reflect.DeepEqual(nums, want) {
		t.Fatalf("nums = %v, want %v", nums, want)
	}
	if got := Format(nums); got != "01, 06, 12, 23, 30, 34, 41, 45, 52, 60" {
		t.Fatalf("format = %q", got)
	}
}

func TestValidateSeparatorIndependence(t *testing.T) {
	inputs := []string{
		"60 52 45 41 34 30 23 12 6 1",
		"1,6,12,23,30,34,41,45,52,60",
		"1, 6,12  23\t30 34,41 45 52 60",
	}
	for _, in := range inputs {
		nums, err := Validate(in)
		if err != nil {
			t.Fatalf("validate(%q): %v", in, err)
		}
		if nums[0] != 1 || nums[9] != 60 {
			t.Fatalf("validate(%q) = %v", in, nums)
		}
	}
}

func TestValidateRejectsDuplicates(t *testing.T) {
	_, err := Validate("5 5 12 23 30 34 41 45 52 60")
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Reason != Duplicate {
		t.Fatalf("err = %v, want duplicate rejection", err)
	}
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	_, err := Validate("1 6 12 23 30 34 41 45 52 99")
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Reason != OutOfRange {
		t.Fatalf("err = %v, want out-of-range rejection", err)
	}
}

func TestValidateRejectsWrongCount(t *testing.T) {
	for _, in := range []string{"1 6 12 23 30", "1 2 3 4 5 6 7 8 9 10 11", "sem numeros"} {
		_, err := Validate(in)
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Reason != WrongCount {
			t.Fatalf("validate(%q) err = %v, want wrong-count rejection", in, err)
		}
	}
}

func TestValidateRejectsEmptyText(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t"} {
		_, err := Validate(in)
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Reason != Unparsable {
			t.Fatalf("validate(%q) err = %v, want unparsable rejection", in, err)
		}
	}
}

func TestRangeCheckBeforeUniqueness(t *testing.T) {
	// Both rules are broken; the range reply must win.
	_, err := Validate("99 99 12 23 30 34 41 45 52 60")
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Reason != OutOfRange {
		t.Fatalf("err = %v, want out-of-range rejection", err)
	}
}

func TestExtractKeepsOrderAndDuplicates(t *testing.T) {
	got := Extract("abc 07, 7 e 123")
	want := []int{7, 7, 12, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("extract = %v, want %v", got, want)
	}
}

func TestFormatIdempotent(t *testing.T) {
	nums, err := Validate("1 6 12 23 30 34 41 45 52 60")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	once := Format(nums)
	reparsed, err := Validate(once)
	if err != nil {
		t.Fatalf("validate(formatted): %v", err)
	}
	if twice := Format(reparsed); twice != once {
		t.Fatalf("format not idempotent: %q vs %q", once, twice)
	}
}
