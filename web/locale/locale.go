// Package locale loads the TOML translations and picks a localizer per request.
package locale

import (
	"io/fs"
	"strings"
	"sync"

	"github.com/next-levels/go-cms/logger"

	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

// DefaultLanguage is used when neither cookie nor Accept-Language match.
var DefaultLanguage = language.MustParse("de-DE")

const (
	LangCookie   = "lang"
	localizerKey = "localizer"
	i18nKey      = "I18n"
)

var (
	bundleMu   sync.RWMutex
	i18nBundle *i18n.Bundle
)

// InitLocalizer parses every file below translation/ in fsys.
func InitLocalizer(fsys fs.FS) error {
	bundle := i18n.NewBundle(DefaultLanguage)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	err := fs.WalkDir(fsys, "translation", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		_, err = bundle.ParseMessageFileBytes(data, path)
		return err
	})
	if err != nil {
		return err
	}

	bundleMu.Lock()
	i18nBundle = bundle
	bundleMu.Unlock()
	return nil
}

// Languages lists the tags that have translations.
func Languages() []language.Tag {
	bundleMu.RLock()
	defer bundleMu.RUnlock()
	if i18nBundle == nil {
		return nil
	}
	return i18nBundle.LanguageTags()
}

func createTemplateData(params []string, separator ...string) map[string]any {
	sep := "=="
	if len(separator) > 0 {
		sep = separator[0]
	}
	templateData := make(map[string]any)
	for _, param := range params {
		key, value, ok := strings.Cut(param, sep)
		if !ok {
			continue
		}
		templateData[key] = value
	}
	return templateData
}

// NewLocalizer returns a localizer for the given preferences, or nil before InitLocalizer.
func NewLocalizer(langs ...string) *i18n.Localizer {
	bundleMu.RLock()
	defer bundleMu.RUnlock()
	if i18nBundle == nil {
		return nil
	}
	return i18n.NewLocalizer(i18nBundle, langs...)
}

// Translate localizes key. Params are "name==value" pairs. The key itself is
// returned when no translation is available.
func Translate(localizer *i18n.Localizer, key string, params ...string) string {
	if localizer == nil {
		return key
	}
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: createTemplateData(params),
	})
	if err != nil {
		logger.Debugf("Failed to localize message %q: %v", key, err)
		return key
	}
	return msg
}

// LocalizerMiddleware picks the language from the lang cookie or Accept-Language.
func LocalizerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var lang string
		if cookie, err := c.Request.Cookie(LangCookie); err == nil {
			lang = cookie.Value
		}
		localizer := NewLocalizer(lang, c.GetHeader("Accept-Language"))

		c.Set(localizerKey, localizer)
		c.Set(i18nKey, func(key string, params ...string) string {
			return Translate(localizer, key, params...)
		})
		c.Next()
	}
}

// I18n translates key with the localizer of the request.
func I18n(c *gin.Context, key string, params ...string) string {
	if v, ok := c.Get(i18nKey); ok {
		if fn, ok := v.(func(string, ...string) string); ok {
			return fn(key, params...)
		}
	}
	return Translate(NewLocalizer(), key, params...)
}
