package i18n

import (
	"log"
	"os"
	"strings"
	"sync"

	"github.com/jeandeaual/go-locale"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

var (
	mu        sync.RWMutex
	lang      string
	bundle    *goi18n.Bundle
	localizer *goi18n.Localizer
)

var supported = []string{"en", "pt", "es", "ru"}

// translations maps an English message to its translations. The English text
// doubles as the message ID.
var translations = map[string]map[string]string{
	"mm:ss or seconds": {
		"pt": "mm:ss ou segundos",
		"es": "mm:ss o segundos",
		"ru": "мм:сс или секунды",
	},
	"Name": {
		"pt": "Nome",
		"es": "Nombre",
		"ru": "Название",
	},
	"Duration": {
		"pt": "Duração",
		"es": "Duración",
		"ru": "Длительность",
	},
	"Add Timer": {
		"pt": "Adicionar",
		"es": "Añadir",
		"ru": "Добавить",
	},
	"Stop": {
		"pt": "Parar",
		"es": "Parar",
		"ru": "Стоп",
	},
	"Start": {
		"pt": "Iniciar",
		"es": "Iniciar",
		"ru": "Старт",
	},
	"Running": {
		"pt": "Em andamento",
		"es": "En marcha",
		"ru": "Запущено",
	},
	"Stopped": {
		"pt": "Parado",
		"es": "Detenido",
		"ru": "Остановлено",
	},
	"No timers yet": {
		"pt": "Nenhum timer ainda",
		"es": "Aún no hay temporizadores",
		"ru": "Таймеров пока нет",
	},
	"Invalid duration": {
		"pt": "Duração inválida",
		"es": "Duración no válida",
		"ru": "Неверная длительность",
	},
}

func init() {
	bundle = goi18n.NewBundle(language.English)
	for key, byLang := range translations {
		_ = bundle.AddMessages(language.English, &goi18n.Message{ID: key, Other: key})
		for l, text := range byLang {
			_ = bundle.AddMessages(language.Make(l), &goi18n.Message{ID: key, Other: text})
		}
	}

	// Check for override environment variable
	if forcedLang := strings.TrimSpace(os.Getenv("TIMERBOARD_LANG")); forcedLang != "" {
		log.Printf("TIMERBOARD_LANG is set to: '%s'", forcedLang)
		SetLang(forcedLang)
		return
	}

	userLocales, err := locale.GetLocales()
	if err != nil || len(userLocales) == 0 {
		SetLang("en")
		return
	}
	SetLang(userLocales[0])
}

// SetLang selects the UI language. Anything that is not one of the
// supported languages falls back to English.
func SetLang(l string) {
	l = normalize(l)

	mu.Lock()
	defer mu.Unlock()
	lang = l
	localizer = goi18n.NewLocalizer(bundle, l)
}

func normalize(l string) string {
	l = strings.ToLower(strings.TrimSpace(l))
	for _, s := range supported {
		if strings.HasPrefix(l, s) {
			return s
		}
	}
	return "en"
}

func T(key string) string {
	mu.RLock()
	loc := localizer
	mu.RUnlock()

	translated, err := loc.Localize(&goi18n.LocalizeConfig{MessageID: key})
	if err != nil || translated == "" {
		return key
	}
	return translated
}

func GetLang() string {
	mu.RLock()
	defer mu.RUnlock()
	return lang
}
