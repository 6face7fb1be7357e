package middlewarectx

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"golang.org/x/mod/semver"

	"github.com/magabrotheeeer/jam/internal/http/response"
)

// AppVersionHeader - заголовок с версией мобильного клиента.
const AppVersionHeader = "X-App-Version"

// MinAppVersionMiddleware отклоняет запросы клиентов старше minVersion
// со статусом 426 Upgrade Required. Запросы без заголовка пропускаются.
// Пустой minVersion отключает проверку.
func MinAppVersionMiddleware(log *slog.Logger, minVersion string) func(http.Handler) http.Handler {
	minVersion = canonical(minVersion)
	return func(next http.Handler) http.Handler {
		if minVersion == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(AppVersionHeader)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			v := canonical(raw)
			if v == "" || semver.Compare(v, minVersion) < 0 {
				log.Info("client version rejected", slog.String("version", raw), slog.String("min", minVersion))
				render.Status(r, http.StatusUpgradeRequired)
				render.JSON(w, r, response.Error("please update the app to "+minVersion+" or newer"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// canonical приводит "1.2.3" к виду "v1.2.3". Некорректная версия даёт "".
func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return semver.Canonical(v)
}
