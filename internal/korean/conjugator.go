package korean

import (
	"fmt"
	"strings"
)

// Conjugation holds the polite-style (해요체) forms of a verb
type Conjugation struct {
	Base    string `json:"base_form"`
	Present string `json:"present"`
	Past    string `json:"past"`
	Future  string `json:"future"`
}

const (
	hangulBase = rune(0xAC00)
	hangulEnd  = rune(0xD7A3)
)

// jamo indices for the syllable-final consonants we care about
const (
	tailNone   = 0
	tailRieul  = 8  // ㄹ
	tailBieup  = 17 // ㅂ
	tailSiot   = 19 // ㅅ
	tailDigeut = 7  // ㄷ
	tailSsang  = 20 // ㅆ
)

// vowel indices in the compatibility ordering
const (
	vowelA  = 0  // ㅏ
	vowelEo = 4  // ㅓ
	vowelO  = 8  // ㅗ
	vowelU  = 13 // ㅜ
	vowelEu = 18 // ㅡ
	vowelI  = 20 // ㅣ
	vowelWa = 9  // ㅘ
	vowelWo = 14 // ㅝ
	vowelAe = 1  // ㅐ
	vowelYeo = 6 // ㅕ
)

func decompose(r rune) (lead, vowel, tail int, ok bool) {
	if r < hangulBase || r > hangulEnd {
		return 0, 0, 0, false
	}
	offset := int(r - hangulBase)
	return offset / 588, (offset % 588) / 28, offset % 28, true
}

func compose(lead, vowel, tail int) rune {
	return hangulBase + rune(lead*588+vowel*28+tail)
}

// Stems whose final ㄷ becomes ㄹ before a vowel.
var digeutIrregular = map[string]bool{"듣": true, "걷": true, "묻": true, "깨닫": true}

// Stems whose final ㅅ drops before a vowel without contraction.
var siotIrregular = map[string]bool{"낫": true, "짓": true, "붓": true, "잇": true}

// ㅂ-final stems that conjugate regularly (잡다, 입다, 좁다 keep their ㅂ).
var bieupRegular = map[string]bool{"잡": true, "입": true, "좁": true, "씹": true, "업": true}

// Conjugate produces the polite present, past and future forms of a dictionary-form
// verb. It covers regular verbs plus the ㅂ/ㄷ/ㅅ/르 irregular classes and 하다
// verbs; genuinely unknown patterns come out as plain vowel-harmony forms, which is
// why callers keep an AI fallback for display-quality output.
func Conjugate(base string) (*Conjugation, error) {
	base = strings.TrimSpace(base)
	if !strings.HasSuffix(base, "다") {
		return nil, fmt.Errorf("not a dictionary form: %q", base)
	}
	stem := strings.TrimSuffix(base, "다")
	if stem == "" {
		return nil, fmt.Errorf("empty verb stem: %q", base)
	}

	// 하다 verbs contract to 해요
	if strings.HasSuffix(stem, "하") {
		head := strings.TrimSuffix(stem, "하")
		return &Conjugation{
			Base:    base,
			Present: head + "해요",
			Past:    head + "했어요",
			Future:  head + "할 거예요",
		}, nil
	}

	runes := []rune(stem)
	last := runes[len(runes)-1]
	lead, vowel, tail, ok := decompose(last)
	if !ok {
		return nil, fmt.Errorf("stem is not hangul: %q", base)
	}

	present, past := politeForms(runes, lead, vowel, tail)
	return &Conjugation{
		Base:    base,
		Present: present,
		Past:    past,
		Future:  futureForm(runes, lead, vowel, tail),
	}, nil
}

func politeForms(stem []rune, lead, vowel, tail int) (present, past string) {
	head := string(stem[:len(stem)-1])
	bright := isBright(stem, vowel, tail)

	// 르 irregular: 모르다 → 몰라요. The syllable before 르 gains a ㄹ batchim.
	if tail == tailNone && string(stem[len(stem)-1]) == "르" && len(stem) >= 2 {
		prevLead, prevVowel, prevTail, ok := decompose(stem[len(stem)-2])
		if ok && prevTail == tailNone {
			prev := compose(prevLead, prevVowel, tailRieul)
			prefix := string(stem[:len(stem)-2]) + string(prev)
			if isBrightVowel(prevVowel) {
				return prefix + "라요", prefix + "랐어요"
			}
			return prefix + "러요", prefix + "렀어요"
		}
	}

	// ㅂ irregular: 춥다 → 추워요 (unless listed as regular)
	if tail == tailBieup && !bieupRegular[string(stem[len(stem)-1:])] {
		open := compose(lead, vowel, tailNone)
		prefix := head + string(open)
		return prefix + "워요", prefix + "웠어요"
	}

	// ㄷ irregular: 듣다 → 들어요
	if tail == tailDigeut && digeutIrregular[string(stem[len(stem)-1:])] {
		softened := compose(lead, vowel, tailRieul)
		prefix := head + string(softened)
		return prefix + "어요", prefix + "었어요"
	}

	// ㅅ irregular: 낫다 → 나아요 (no contraction)
	if tail == tailSiot && siotIrregular[string(stem[len(stem)-1:])] {
		open := compose(lead, vowel, tailNone)
		prefix := head + string(open)
		if bright {
			return prefix + "아요", prefix + "았어요"
		}
		return prefix + "어요", prefix + "었어요"
	}

	// closed syllable, regular: attach 아요/어요 without contraction
	if tail != tailNone {
		if bright {
			return string(stem) + "아요", string(stem) + "았어요"
		}
		return string(stem) + "어요", string(stem) + "었어요"
	}

	// open syllable: the ending contracts into the final vowel
	switch vowel {
	case vowelA: // 가다 → 가요
		return head + string(compose(lead, vowelA, tailNone)) + "요",
			head + string(compose(lead, vowelA, tailSsang)) + "어요"
	case vowelO: // 오다 → 와요
		return head + string(compose(lead, vowelWa, tailNone)) + "요",
			head + string(compose(lead, vowelWa, tailSsang)) + "어요"
	case vowelU: // 주다 → 줘요
		return head + string(compose(lead, vowelWo, tailNone)) + "요",
			head + string(compose(lead, vowelWo, tailSsang)) + "어요"
	case vowelI: // 마시다 → 마셔요
		return head + string(compose(lead, vowelYeo, tailNone)) + "요",
			head + string(compose(lead, vowelYeo, tailSsang)) + "어요"
	case vowelEo: // 서다 → 서요
		return head + string(compose(lead, vowelEo, tailNone)) + "요",
			head + string(compose(lead, vowelEo, tailSsang)) + "어요"
	case vowelEu: // 쓰다 → 써요, 바쁘다 → 바빠요 (harmony from the prior syllable)
		target := vowelEo
		if len(stem) >= 2 {
			if _, pv, _, ok := decompose(stem[len(stem)-2]); ok && isBrightVowel(pv) {
				target = vowelA
			}
		}
		return head + string(compose(lead, target, tailNone)) + "요",
			head + string(compose(lead, target, tailSsang)) + "어요"
	default: // 되다, 쉬다 and friends: attach without contraction
		return string(stem) + "어요", string(stem) + "었어요"
	}
}

func futureForm(stem []rune, lead, vowel, tail int) string {
	head := string(stem[:len(stem)-1])
	last := string(stem[len(stem)-1:])
	switch {
	// The irregular stems change before the vowel of 을 just as they do
	// before 어요: 춥다 → 추울, 듣다 → 들을, 낫다 → 나을.
	case tail == tailBieup && !bieupRegular[last]:
		return head + string(compose(lead, vowel, tailNone)) + "울 거예요"
	case tail == tailDigeut && digeutIrregular[last]:
		return head + string(compose(lead, vowel, tailRieul)) + "을 거예요"
	case tail == tailSiot && siotIrregular[last]:
		return head + string(compose(lead, vowel, tailNone)) + "을 거예요"
	case tail == tailNone:
		return head + string(compose(lead, vowel, tailRieul)) + " 거예요"
	case tail == tailRieul:
		return string(stem) + " 거예요"
	default:
		return string(stem) + "을 거예요"
	}
}

func isBrightVowel(vowel int) bool {
	return vowel == vowelA || vowel == vowelO
}

// isBright applies vowel harmony: the last stem vowel decides, except that a
// ㅡ-only final syllable defers to the one before it.
func isBright(stem []rune, vowel, tail int) bool {
	if vowel == vowelEu && tail == tailNone && len(stem) >= 2 {
		if _, pv, _, ok := decompose(stem[len(stem)-2]); ok {
			return isBrightVowel(pv)
		}
	}
	return isBrightVowel(vowel)
}
