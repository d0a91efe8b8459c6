// Package korean holds small deterministic language helpers: number-word
// conversion and polite-style verb conjugation.
package korean

import (
	"regexp"
	"strconv"
	"strings"
)

// Sino-Korean digits are used for dates, money and general counting.
var sinoDigits = map[int]string{
	0: "영", 1: "일", 2: "이", 3: "삼", 4: "사", 5: "오",
	6: "육", 7: "칠", 8: "팔", 9: "구", 10: "십", 100: "백",
}

// Native Korean numbers are used for time, age and counting objects.
// The series is only conventional up to around 30.
var nativeNumbers = map[int]string{
	1: "하나", 2: "둘", 3: "셋", 4: "넷", 5: "다섯",
	6: "여섯", 7: "일곱", 8: "여덟", 9: "아홉", 10: "열",
	20: "스무", 30: "서른",
}

// ToSinoKorean converts an integer to Sino-Korean number words.
// Numbers of 1000 or more are returned as digits; they are rare in
// conversational sentences and the callers only post-process short phrases.
func ToSinoKorean(n int) string {
	if n < 0 {
		return "마이너스 " + ToSinoKorean(-n)
	}
	if n == 0 {
		return sinoDigits[0]
	}
	if n >= 1000 {
		return strconv.Itoa(n)
	}
	var b strings.Builder
	if h := n / 100; h > 0 {
		if h > 1 {
			b.WriteString(sinoDigits[h])
		}
		b.WriteString(sinoDigits[100])
		n %= 100
	}
	if t := n / 10; t > 0 {
		if t > 1 {
			b.WriteString(sinoDigits[t])
		}
		b.WriteString(sinoDigits[10])
		n %= 10
	}
	if n > 0 {
		b.WriteString(sinoDigits[n])
	}
	return b.String()
}

// ToNativeKorean converts an integer to native Korean number words.
// Values above 30 fall back to Sino-Korean, matching ordinary usage.
func ToNativeKorean(n int) string {
	if n < 1 {
		return strconv.Itoa(n)
	}
	if w, ok := nativeNumbers[n]; ok {
		return w
	}
	if n > 30 {
		return ToSinoKorean(n)
	}
	tens := "열"
	if n > 20 {
		tens = "스물"
	}
	ones := n % 10
	if ones == 0 {
		return tens
	}
	return tens + nativeNumbers[ones]
}

// Counters that take native Korean numbers.
var nativeContexts = []string{"시", "시간", "살", "세", "개", "명", "마리"}

// ConvertNumber picks the number system from the surrounding context and converts
func ConvertNumber(n int, context string) string {
	for _, c := range nativeContexts {
		if strings.Contains(context, c) {
			return ToNativeKorean(n)
		}
	}
	return ToSinoKorean(n)
}

var numberPattern = regexp.MustCompile(`-?\d+`)

// ConvertNumbersInText replaces Arabic numerals in Korean text with number words.
// The generation service is instructed to avoid numerals, but responses slip.
func ConvertNumbersInText(text string) string {
	return numberPattern.ReplaceAllStringFunc(text, func(match string) string {
		n, err := strconv.Atoi(match)
		if err != nil {
			return match
		}
		return ConvertNumber(n, text)
	})
}
