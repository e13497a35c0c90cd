// Package pricefmt は価格・差分・騰落率を画面表示用の文字列に整形します。
//
// 0.01 未満の価格は小数点直後に続く 0 の個数を下付き数字で表す圧縮表記
// （例: 0.00000123 → "0.0₅123"）で表示します。
package pricefmt

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	// Placeholder is shown in place of a value that cannot be rendered.
	Placeholder = "—"

	currency       = "USD"
	maxSignificant = 4
)

var subscriptDigits = [10]rune{'₀', '₁', '₂', '₃', '₄', '₅', '₆', '₇', '₈', '₉'}

// Compact は 0.01 未満の値を圧縮表記するための構成要素です。
type Compact struct {
	// ZeroCount は小数点直後に連続する 0 の個数です。
	ZeroCount int
	// Significant は先頭の 0 に続く最大4桁（切り捨て、末尾の 0 は除去）です。
	Significant string
}

// String returns the plain-text form, e.g. "0.0₅123".
func (c Compact) String() string {
	return "0.0" + Subscript(c.ZeroCount) + c.Significant
}

// HTML returns the form used inside HTML regions, with the zero count in a <sub>.
func (c Compact) HTML() string {
	return fmt.Sprintf(`0.0<sub class="zero-count">%d</sub>%s`, c.ZeroCount, c.Significant)
}

// CompactParts は |v| が 0 より大きく 0.01 未満のときに圧縮表記の構成要素を返します。
// 対象外の値（0、0.01 以上、非有限値）では false を返します。
func CompactParts(v float64) (Compact, bool) {
	if !finite(v) {
		return Compact{}, false
	}
	abs := math.Abs(v)
	if abs == 0 || abs >= 0.01 {
		return Compact{}, false
	}

	// 'f' with precision -1 yields the shortest decimal expansion that round-trips,
	// so the digits below are exactly those of the value, without rounding.
	frac := strings.TrimPrefix(strconv.FormatFloat(abs, 'f', -1, 64), "0.")
	digits := strings.TrimLeft(frac, "0")
	zeroCount := len(frac) - len(digits)

	if len(digits) > maxSignificant {
		digits = digits[:maxSignificant]
	}
	return Compact{
		ZeroCount:   zeroCount,
		Significant: strings.TrimRight(digits, "0"),
	}, true
}

// Subscript renders n using Unicode subscript digits.
func Subscript(n int) string {
	s := strconv.Itoa(n)
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(subscriptDigits[r-'0'])
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Price は価格を表示用文字列に整形します。
//   - |v| >= 1        : 小数2桁、3桁区切り
//   - 0.01 <= |v| < 1 : 小数4桁
//   - |v| < 0.01      : 圧縮表記
//
// 符号は負の値にのみ付与し、非有限値は Placeholder を返します。
func Price(v float64) string {
	if !finite(v) {
		return Placeholder
	}
	return negativeSign(v) + magnitude(math.Abs(v), false)
}

// PriceHTML is Price with the zero count rendered as <sub>.
func PriceHTML(v float64) string {
	if !finite(v) {
		return Placeholder
	}
	return negativeSign(v) + magnitude(math.Abs(v), true)
}

// USD は通貨プレフィックス付きの価格表記を返します（例: "USD 1,234.50", "-USD 0.0123"）。
func USD(v float64) string {
	if !finite(v) {
		return currency + " " + Placeholder
	}
	return negativeSign(v) + currency + " " + magnitude(math.Abs(v), false)
}

// USDHTML is USD with the zero count rendered as <sub>.
func USDHTML(v float64) string {
	if !finite(v) {
		return currency + " " + Placeholder
	}
	return negativeSign(v) + currency + " " + magnitude(math.Abs(v), true)
}

// Diff は符号付きの差分と騰落率を組み立てます（例: "+USD 0.0₅123 (+4.32%)"）。
// 符号は diff の符号に従い、0 のときは付きません。
func Diff(diff, pct float64) string {
	s := Sign(diff)
	return s + USD(math.Abs(diff)) + " (" + s + unsignedPercent(pct) + ")"
}

// DiffHTML is Diff with the zero count rendered as <sub>.
func DiffHTML(diff, pct float64) string {
	s := Sign(diff)
	return s + USDHTML(math.Abs(diff)) + " (" + s + unsignedPercent(pct) + ")"
}

// Sign returns "+" for positive, "-" for negative and "" for zero or NaN.
func Sign(v float64) string {
	switch {
	case v > 0:
		return "+"
	case v < 0:
		return "-"
	}
	return ""
}

// Percent formats v with two decimals and a percent sign. Non-finite values yield "--%".
func Percent(v float64) string {
	if !finite(v) {
		return "--%"
	}
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}

func unsignedPercent(pct float64) string {
	if !finite(pct) {
		return Placeholder + "%"
	}
	return strconv.FormatFloat(math.Abs(pct), 'f', 2, 64) + "%"
}

func magnitude(abs float64, html bool) string {
	switch {
	case abs >= 1:
		return grouped(abs)
	case abs >= 0.01:
		return strconv.FormatFloat(abs, 'f', 4, 64)
	}
	c, ok := CompactParts(abs)
	if !ok {
		return "0.00"
	}
	if html {
		return c.HTML()
	}
	return c.String()
}

// grouped rounds half away from zero before formatting; number.Decimal alone rounds half to even.
func grouped(abs float64) string {
	abs = math.Round(abs*100) / 100
	p := message.NewPrinter(language.English)
	return p.Sprintf("%v", number.Decimal(abs, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

func negativeSign(v float64) string {
	if v < 0 {
		return "-"
	}
	return ""
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
