// redact маскирует чувствительные значения перед записью в лог.
package redact

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Token возвращает короткий отпечаток токена вместо самого токена.
// Отпечаток позволяет сопоставить записи лога об одном и том же токене,
// но не даёт восстановить токен.
func Token(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "[EMPTY_TOKEN]"
	}

	sum := sha256.Sum256([]byte(raw))
	return "sha256:" + hex.EncodeToString(sum[:4])
}

// Username оставляет первые два символа имени, остальное заменяет на ***.
func Username(s string) string {
	r := []rune(s)
	if len(r) <= 2 {
		return "***"
	}

	return string(r[:2]) + "***"
}
