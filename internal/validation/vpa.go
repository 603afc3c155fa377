// Package validation содержит функции валидации входных данных.
package validation

import "strings"

// IsValidVPA проверяет формат платёжного адреса UPI вида handle@psp:
// непустая часть до @ из латинских букв, цифр и разделителей . - _,
// непустая часть после @ из латинских букв.
func IsValidVPA(vpa string) bool {
	at := strings.IndexByte(vpa, '@')
	if at <= 0 || at == len(vpa)-1 {
		return false
	}
	if strings.IndexByte(vpa[at+1:], '@') != -1 {
		return false
	}

	handle := vpa[:at]
	psp := vpa[at+1:]

	for i := 0; i < len(handle); i++ {
		ch := handle[i]
		switch {
		case ch >= 'a' && ch <= 'z':
		case ch >= 'A' && ch <= 'Z':
		case ch >= '0' && ch <= '9':
		case ch == '.' || ch == '-' || ch == '_':
		default:
			return false
		}
	}

	for i := 0; i < len(psp); i++ {
		ch := psp[i]
		if (ch < 'a' || ch > 'z') && (ch < 'A' || ch > 'Z') {
			return false
		}
	}

	return true
}
