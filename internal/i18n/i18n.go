// Package i18n holds the translated messages of the spt-demo command.
package i18n

import (
	"os"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Supported languages
const (
	LangEnglish = "en"
	LangSpanish = "es"
	LangGerman  = "de"
	LangFrench  = "fr"
)

// EnvLang overrides the locale for demo output.
const EnvLang = "SPT_LANG"

var (
	// Global printer for internationalization
	printer *message.Printer

	// Synchronization for thread-safe access
	registerOnce sync.Once
	printerMu    sync.RWMutex

	supportedLanguages = map[string]language.Tag{
		LangEnglish: language.English,
		LangSpanish: language.Spanish,
		LangGerman:  language.German,
		LangFrench:  language.French,
	}
)

// Init selects the output language. Preference order is langFlag, then
// SPT_LANG, then LC_ALL and LANG, then English.
func Init(langFlag string) {
	registerOnce.Do(registerMessages)

	tag, ok := supportedLanguages[determineLang(langFlag)]
	if !ok {
		tag = language.English
	}

	printerMu.Lock()
	printer = message.NewPrinter(tag)
	printerMu.Unlock()
}

func determineLang(langFlag string) string {
	if langFlag != "" {
		return normalizeLanguage(langFlag)
	}
	for _, v := range []string{EnvLang, "LC_ALL", "LANG"} {
		if lang := os.Getenv(v); lang != "" {
			return normalizeLanguage(lang)
		}
	}
	return LangEnglish
}

// normalizeLanguage maps locale names like "de_DE.UTF-8" to a supported
// language code.
func normalizeLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))

	switch {
	case strings.HasPrefix(lang, "es") || lang == "spanish" || lang == "español":
		return LangSpanish
	case strings.HasPrefix(lang, "de") || lang == "german" || lang == "deutsch":
		return LangGerman
	case strings.HasPrefix(lang, "fr") || lang == "french" || lang == "français":
		return LangFrench
	default:
		return LangEnglish
	}
}

// T returns the message for key in the selected language.
func T(key string, args ...interface{}) string {
	printerMu.RLock()
	p := printer
	printerMu.RUnlock()

	if p == nil {
		Init("")
		printerMu.RLock()
		p = printer
		printerMu.RUnlock()
	}
	return p.Sprintf(key, args...)
}

// DetectLanguageFromArgs finds a --lang flag before the command tree is
// built, so help texts come out in the right language.
func DetectLanguageFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--lang" && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(arg, "--lang=") {
			return strings.TrimPrefix(arg, "--lang=")
		}
	}
	return ""
}

type translation struct {
	en, es, de, fr string
}

var messages = map[string]translation{
	"root_short": {
		en: "Change the process and thread titles shown by ps",
		es: "Cambia los títulos de proceso e hilo que muestra ps",
		de: "Ändert die von ps angezeigten Prozess- und Thread-Titel",
		fr: "Modifie les titres de processus et de thread affichés par ps",
	},
	"set_short": {
		en: "Set the process title",
		es: "Establece el título del proceso",
		de: "Setzt den Prozesstitel",
		fr: "Définit le titre du processus",
	},
	"get_short": {
		en: "Print the process title",
		es: "Muestra el título del proceso",
		de: "Gibt den Prozesstitel aus",
		fr: "Affiche le titre du processus",
	},
	"info_short": {
		en: "Show platform capabilities",
		es: "Muestra las capacidades de la plataforma",
		de: "Zeigt die Fähigkeiten der Plattform",
		fr: "Affiche les capacités de la plateforme",
	},
	"threads_short": {
		en: "Name one thread per argument",
		es: "Nombra un hilo por argumento",
		de: "Benennt einen Thread pro Argument",
		fr: "Nomme un thread par argument",
	},
	"prompt_short": {
		en: "Ask for a title interactively",
		es: "Pide un título de forma interactiva",
		de: "Fragt interaktiv nach einem Titel",
		fr: "Demande un titre de manière interactive",
	},
	"version_short": {
		en: "Show version information",
		es: "Muestra la información de versión",
		de: "Zeigt Versionsinformationen",
		fr: "Affiche les informations de version",
	},
	"flag_hold_help": {
		en: "keep running this long so the title can be inspected",
		es: "sigue en ejecución este tiempo para inspeccionar el título",
		de: "so lange weiterlaufen, damit der Titel geprüft werden kann",
		fr: "continuer à tourner ce temps pour inspecter le titre",
	},
	"flag_lang_help": {
		en: "output language (en, es, de, fr)",
		es: "idioma de salida (en, es, de, fr)",
		de: "Ausgabesprache (en, es, de, fr)",
		fr: "langue de sortie (en, es, de, fr)",
	},
	"title_before": {
		en: "before: %s",
		es: "antes: %s",
		de: "vorher: %s",
		fr: "avant : %s",
	},
	"title_after": {
		en: "after:  %s",
		es: "después: %s",
		de: "nachher: %s",
		fr: "après : %s",
	},
	"title_current": {
		en: "title: %s",
		es: "título: %s",
		de: "Titel: %s",
		fr: "titre : %s",
	},
	"short_name": {
		en: "short name: %s",
		es: "nombre corto: %s",
		de: "Kurzname: %s",
		fr: "nom court : %s",
	},
	"degraded": {
		en: "degraded: %v",
		es: "degradado: %v",
		de: "eingeschränkt: %v",
		fr: "dégradé : %v",
	},
	"holding": {
		en: "holding for %s (pid %d)",
		es: "esperando %s (pid %d)",
		de: "warte %s (PID %d)",
		fr: "attente de %s (pid %d)",
	},
	"capacity": {
		en: "capacity: %s (%d bytes)",
		es: "capacidad: %s (%d bytes)",
		de: "Kapazität: %s (%d Bytes)",
		fr: "capacité : %s (%d octets)",
	},
	"capacity_unbounded": {
		en: "capacity: unbounded",
		es: "capacidad: ilimitada",
		de: "Kapazität: unbegrenzt",
		fr: "capacité : illimitée",
	},
	"backend": {
		en: "backend: %s",
		es: "mecanismo: %s",
		de: "Mechanismus: %s",
		fr: "mécanisme : %s",
	},
	"environment": {
		en: "environment: %s, relocated: %v",
		es: "entorno: %s, reubicado: %v",
		de: "Umgebung: %s, verschoben: %v",
		fr: "environnement : %s, déplacé : %v",
	},
	"thread_named": {
		en: "thread %d: %s",
		es: "hilo %d: %s",
		de: "Thread %d: %s",
		fr: "thread %d : %s",
	},
	"prompt_title": {
		en: "New process title",
		es: "Nuevo título del proceso",
		de: "Neuer Prozesstitel",
		fr: "Nouveau titre du processus",
	},
	"prompt_description": {
		en: "Shown by ps and top while this command runs",
		es: "Lo muestran ps y top mientras se ejecuta este comando",
		de: "Wird von ps und top angezeigt, solange dieser Befehl läuft",
		fr: "Affiché par ps et top pendant l'exécution de cette commande",
	},
	"title_empty": {
		en: "title must not be empty",
		es: "el título no puede estar vacío",
		de: "der Titel darf nicht leer sein",
		fr: "le titre ne doit pas être vide",
	},
	"not_a_terminal": {
		en: "standard input is not a terminal",
		es: "la entrada estándar no es un terminal",
		de: "die Standardeingabe ist kein Terminal",
		fr: "l'entrée standard n'est pas un terminal",
	},
}

func registerMessages() {
	for key, m := range messages {
		message.SetString(language.English, key, m.en)
		message.SetString(language.Spanish, key, m.es)
		message.SetString(language.German, key, m.de)
		message.SetString(language.French, key, m.fr)
	}
}
