package output

import (
	"golang.org/x/text/language"
)

var currentLang = language.English

// SetLang selects the closest supported output language.
func SetLang(tag language.Tag) {
	matcher := language.NewMatcher([]language.Tag{language.English, language.Russian})
	_, index, _ := matcher.Match(tag)
	switch index {
	case 1:
		currentLang = language.Russian
	default:
		currentLang = language.English
	}
}

// Lang returns the active output language.
func Lang() language.Tag {
	return currentLang
}

// Translate returns the message for key in the active language. Unknown
// keys are returned as-is so a missing entry is visible, not fatal.
func Translate(key string) string {
	if currentLang == language.Russian {
		if msg, ok := russian[key]; ok {
			return msg
		}
	}
	if msg, ok := english[key]; ok {
		return msg
	}
	return key
}

// Translations returns the active language's full message table.
func Translations() map[string]string {
	table := make(map[string]string, len(english))
	for k, v := range english {
		table[k] = v
	}
	if currentLang == language.Russian {
		for k, v := range russian {
			table[k] = v
		}
	}
	return table
}

var english = map[string]string{
	"launcher.description": "Installer and launcher for the KG Chat desktop application",
	"launcher.copyright":   "© KG Chat contributors",
	"launcher.license":     "Distributed under the MIT license",
	"launcher.warning":     "Warning",
	"launcher.debug":       "Debug",
	"launcher.error":       "Error",
	"launcher.tip":         "Tip",

	"cmd.install":     "Install application dependencies",
	"cmd.start":       "Start the application",
	"cmd.stop":        "Stop a running application",
	"cmd.status":      "Show launched application sessions",
	"cmd.shortcut":    "Manage the desktop shortcut",
	"cmd.doctor":      "Check the environment for problems",
	"cmd.logs":        "Inspect install and session logs",
	"cmd.config":      "Manage launcher configuration",
	"cmd.update":      "Update the launcher itself",
	"cmd.completions": "Generate shell completions",
	"cmd.about":       "Show launcher information",

	"arg.verbosity":   "Output verbosity",
	"arg.dir":         "Path to the application directory",
	"arg.nocolor":     "Disable colored output",
	"arg.interactive": "Run in interactive mode",
	"arg.lang":        "Output language (en, ru)",

	"install.running":  "Installing dependencies from %s",
	"install.success":  "Dependencies installed successfully",
	"install.failure":  "Dependency installation failed (pip exit %d)",
	"install.logged":   "Install output captured to %s",
	"start.detached":   "%s started in the background (pid %d)",
	"start.silent":     "Output is discarded; pass --log to capture it",
	"stop.none":        "No running application found",
	"stop.stopped":     "Application stopped (pid %d)",
	"shortcut.exists":  "Desktop shortcut already exists: %s",
	"shortcut.created": "Desktop shortcut created: %s",
	"shortcut.removed": "Desktop shortcut removed",
	"shortcut.missing": "No desktop shortcut found",

	"tip.noproject": "Point the launcher at the application with --dir or run it from the application directory",
	"tip.nopython":  "Install Python 3 or set the interpreter with --python or KGCHAT_PYTHON",
	"tip.early":     "Start with --attach or --log to see why the application exits",
	"tip.pip":       "Check the install log for pip's error output",

	"interactive.prompt":  "kgl> ",
	"interactive.goodbye": "Bye!",
}

var russian = map[string]string{
	"launcher.description": "Установщик и лаунчер для приложения KG Chat",
	"launcher.copyright":   "© Авторы KG Chat",
	"launcher.license":     "Распространяется по лицензии MIT",
	"launcher.warning":     "Внимание",
	"launcher.debug":       "Отладка",
	"launcher.error":       "Ошибка",
	"launcher.tip":         "Подсказка",

	"cmd.install":     "Установить зависимости приложения",
	"cmd.start":       "Запустить приложение",
	"cmd.stop":        "Остановить запущенное приложение",
	"cmd.status":      "Показать сессии приложения",
	"cmd.shortcut":    "Управление ярлыком на рабочем столе",
	"cmd.doctor":      "Проверить окружение",
	"cmd.logs":        "Просмотр логов установки и сессий",
	"cmd.config":      "Управление конфигурацией лаунчера",
	"cmd.update":      "Обновление лаунчера",
	"cmd.completions": "Автодополнение для оболочки",
	"cmd.about":       "Информация о лаунчере",

	"arg.verbosity":   "Уровень подробности вывода",
	"arg.dir":         "Путь к каталогу приложения",
	"arg.nocolor":     "Отключить цветной вывод",
	"arg.interactive": "Интерактивный режим",
	"arg.lang":        "Язык вывода (en, ru)",

	"install.running":  "Установка зависимостей из %s",
	"install.success":  "Зависимости успешно установлены",
	"install.failure":  "Не удалось установить зависимости (pip завершился с кодом %d)",
	"install.logged":   "Вывод установки сохранён в %s",
	"start.detached":   "%s запущен в фоне (pid %d)",
	"start.silent":     "Вывод приложения отбрасывается; используйте --log для записи",
	"stop.none":        "Запущенное приложение не найдено",
	"stop.stopped":     "Приложение остановлено (pid %d)",
	"shortcut.exists":  "Ярлык на рабочем столе уже существует: %s",
	"shortcut.created": "Ярлык на рабочем столе создан: %s",
	"shortcut.removed": "Ярлык на рабочем столе удалён",
	"shortcut.missing": "Ярлык на рабочем столе не найден",

	"tip.noproject": "Укажите каталог приложения через --dir или запустите лаунчер из каталога приложения",
	"tip.nopython":  "Установите Python 3 или задайте интерпретатор через --python или KGCHAT_PYTHON",
	"tip.early":     "Запустите с --attach или --log, чтобы увидеть, почему приложение завершается",
	"tip.pip":       "Подробности ошибки pip есть в логе установки",

	"interactive.prompt":  "kgl> ",
	"interactive.goodbye": "До встречи!",
}
