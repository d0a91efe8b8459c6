package korean

import "testing"

func TestConjugate(t *testing.T) {
	tests := []struct {
		base    string
		present string
		past    string
		future  string
	}{
		// regular closed stems
		{"먹다", "먹어요", "먹었어요", "먹을 거예요"},
		{"잡다", "잡아요", "잡았어요", "잡을 거예요"},
		{"살다", "살아요", "살았어요", "살 거예요"},
		// 하다 verbs
		{"하다", "해요", "했어요", "할 거예요"},
		{"공부하다", "공부해요", "공부했어요", "공부할 거예요"},
		// open-stem contractions
		{"가다", "가요", "갔어요", "갈 거예요"},
		{"오다", "와요", "왔어요", "올 거예요"},
		{"주다", "줘요", "줬어요", "줄 거예요"},
		{"마시다", "마셔요", "마셨어요", "마실 거예요"},
		{"서다", "서요", "섰어요", "설 거예요"},
		{"되다", "되어요", "되었어요", "될 거예요"},
		// ㅡ stems with vowel harmony from the prior syllable
		{"쓰다", "써요", "썼어요", "쓸 거예요"},
		{"바쁘다", "바빠요", "바빴어요", "바쁠 거예요"},
		// 르 irregular
		{"모르다", "몰라요", "몰랐어요", "모를 거예요"},
		{"부르다", "불러요", "불렀어요", "부를 거예요"},
		// ㅂ irregular
		{"춥다", "추워요", "추웠어요", "추울 거예요"},
		{"어렵다", "어려워요", "어려웠어요", "어려울 거예요"},
		// ㄷ irregular
		{"듣다", "들어요", "들었어요", "들을 거예요"},
		{"걷다", "걸어요", "걸었어요", "걸을 거예요"},
		// ㅅ irregular
		{"낫다", "나아요", "나았어요", "나을 거예요"},
		{"짓다", "지어요", "지었어요", "지을 거예요"},
	}
	for _, tc := range tests {
		t.Run(tc.base, func(t *testing.T) {
			got, err := Conjugate(tc.base)
			if err != nil {
				t.Fatalf("Conjugate(%q) error: %v", tc.base, err)
			}
			if got.Base != tc.base {
				t.Errorf("Base = %q, want %q", got.Base, tc.base)
			}
			if got.Present != tc.present {
				t.Errorf("Present = %q, want %q", got.Present, tc.present)
			}
			if got.Past != tc.past {
				t.Errorf("Past = %q, want %q", got.Past, tc.past)
			}
			if got.Future != tc.future {
				t.Errorf("Future = %q, want %q", got.Future, tc.future)
			}
		})
	}
}

func TestConjugateRejectsNonDictionaryForms(t *testing.T) {
	for _, base := range []string{"먹", "갔어요", "다", "eat다", ""} {
		if _, err := Conjugate(base); err == nil {
			t.Errorf("Conjugate(%q) expected an error", base)
		}
	}
}
