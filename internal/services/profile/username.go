package profile

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/magabrotheeeer/jam/internal/models"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9._]{3,30}$`)

// NormalizeUsername приводит имя к каноническому виду (нижний регистр, без
// пробельных символов) и проверяет допустимые символы и длину.
func NormalizeUsername(raw string) (string, error) {
	name := strings.ToLower(strings.Join(strings.Fields(raw), ""))
	if !usernamePattern.MatchString(name) {
		return "", fmt.Errorf("%w: username must be 3-30 characters of a-z, 0-9, '.' or '_'", models.ErrValidation)
	}
	return name, nil
}
