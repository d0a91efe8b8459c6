package service

import "testing"

func TestNormalizeAnswer(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trims whitespace", "  갔어요  ", "갔어요"},
		{"strips trailing period", "갔어요.", "갔어요"},
		{"strips mixed punctuation", "갔어요!?;:,.", "갔어요"},
		{"lowercases", "Hello", "hello"},
		{"empty", "", ""},
		{"punctuation only", ".,!?", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeAnswer(tt.input); got != tt.want {
				t.Errorf("NormalizeAnswer(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeAnswerIdempotent(t *testing.T) {
	inputs := []string{"  갔어요. ", "HELLO!", "밥을 먹어요?", ""}
	for _, input := range inputs {
		once := NormalizeAnswer(input)
		if twice := NormalizeAnswer(once); twice != once {
			t.Errorf("normalize not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestIsCorrect(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		accepted []string
		want     bool
	}{
		{"exact match", "갔어요", []string{"갔어요"}, true},
		{"trailing period stripped", "갔어요.", []string{"갔어요"}, true},
		{"accepted side normalized too", "갔어요", []string{"갔어요."}, true},
		{"any position in list", "b", []string{"a", "b", "c"}, true},
		{"case insensitive", "SCHOOL", []string{"school"}, true},
		{"wrong answer", "왔어요", []string{"갔어요"}, false},
		{"empty accepted list", "갔어요", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCorrect(tt.input, tt.accepted); got != tt.want {
				t.Errorf("IsCorrect(%q, %v) = %v, want %v", tt.input, tt.accepted, got, tt.want)
			}
		})
	}
}

func TestIsCorrectOrderIndependent(t *testing.T) {
	accepted := []string{"하나", "둘", "셋"}
	for _, a := range accepted {
		if !IsCorrect(a, accepted) {
			t.Errorf("IsCorrect(%q, %v) should be true", a, accepted)
		}
	}
}

func TestAllBlanksCorrect(t *testing.T) {
	blanked := []string{"어제", "갔어요"}

	tests := []struct {
		name     string
		inputs   []string
		accepted [][]string
		want     bool
	}{
		{"all correct via fallback", []string{"어제", "갔어요"}, nil, true},
		{"one wrong", []string{"오늘", "갔어요"}, nil, false},
		{"explicit accepted lists", []string{"지난주", "갔어요"}, [][]string{{"어제", "지난주"}, nil}, true},
		{"punctuation tolerated", []string{"어제,", "갔어요."}, nil, true},
		{"length mismatch", []string{"어제"}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AllBlanksCorrect(tt.inputs, tt.accepted, blanked); got != tt.want {
				t.Errorf("AllBlanksCorrect(%v) = %v, want %v", tt.inputs, got, tt.want)
			}
		})
	}
}
