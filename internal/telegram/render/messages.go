package render

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

const (
	// Welcome messages
	MsgWelcome = `👋 Привет! Я ассистент курса.

Я отвечаю на вопросы по материалам курса: лекциям, лабораторным и методичкам.

Просто напиши свой вопрос. Под ответом покажу, на какие материалы я опирался.`

	MsgHelp = `🤖 Команды бота:

/start — начать заново
/reset — сбросить диалог
/help — показать эту справку

Как это работает:
1. Напиши вопрос по курсу
2. Я подберу подходящие материалы и отвечу с опорой на них
3. Использованные материалы остаются в контексте диалога

📎 Чтобы добавить материал, пришли файл (txt, md, docx или pdf) с названием в подписи.`

	MsgReset = `♻️ Диалог сброшен. Можно начинать заново.`

	MsgUnknownCommand = `❌ Неизвестная команда. Используйте /help`

	MsgUnsupportedMessage = `✍️ Напиши вопрос текстом, и я поищу ответ в материалах курса.`

	// Materials list
	MsgMaterialsHeader = `📚 Материалы курса:`
	MsgNoMaterials     = `📭 Материалов пока нет. Пришли файл с подписью, чтобы добавить первый.`

	// Upload flow
	MsgUploadNeedTitle = `📎 Добавь к файлу подпись с названием материала и пришли его ещё раз.`

	MsgUploadAccepted = `✅ Материал «%s» добавлен.

Начало содержимого:
%s`

	MsgUploadAcceptedEmpty = `✅ Материал «%s» добавлен.

⚠️ Извлечь текст не получилось, материал сохранён без содержимого.`

	MsgDocumentTooLarge = `❌ Файл слишком большой. Максимальный размер — %d МБ.`

	// Used materials footer under a model reply
	MsgUsedMaterialsPrefix = `📚 Материалы: `

	// Errors
	ErrGeneric            = `❌ Произошла ошибка. Попробуйте ещё раз или нажмите /start`
	ErrNetworkIssue       = `❌ Проблема с соединением. Попробуй чуть позже.`
	ErrServiceUnavailable = `❌ Сервис временно недоступен. Попробуй через пару минут.`
	ErrInvalidInput       = `❌ Сервер не принял запрос. Попробуй переформулировать.`
	ErrTimeout            = `❌ Операция заняла слишком много времени. Попробуй ещё раз.`
	ErrQuotaExceeded      = `❌ Превышен лимит запросов. Подожди немного.`
)

// RenderReply appends the used material titles under the model reply, so the
// student sees which course materials the answer leans on.
func RenderReply(response string, usedTitles []string) string {
	if len(usedTitles) == 0 {
		return response
	}

	var sb strings.Builder
	sb.WriteString(response)
	sb.WriteString("\n\n")
	sb.WriteString(MsgUsedMaterialsPrefix)
	sb.WriteString(strings.Join(usedTitles, ", "))

	return sb.String()
}

// RenderMaterialsList formats the course material list as a bulleted message
func RenderMaterialsList(titles []string) string {
	if len(titles) == 0 {
		return MsgNoMaterials
	}

	var sb strings.Builder
	sb.WriteString(MsgMaterialsHeader)
	sb.WriteString("\n")
	for _, title := range titles {
		sb.WriteString("\n• ")
		sb.WriteString(title)
	}

	return sb.String()
}

// RenderUploadAccepted formats the upload confirmation. An empty preview gets
// its own wording, extraction can silently produce no text.
func RenderUploadAccepted(title, contentPreview string) string {
	if strings.TrimSpace(contentPreview) == "" {
		return fmt.Sprintf(MsgUploadAcceptedEmpty, title)
	}

	return fmt.Sprintf(MsgUploadAccepted, title, contentPreview)
}

// RenderDocumentTooLarge formats the size rejection with the limit in MB
func RenderDocumentTooLarge(maxBytes int64) string {
	return fmt.Sprintf(MsgDocumentTooLarge, maxBytes/(1024*1024))
}

// ClassifyError analyzes an error and returns an appropriate user-friendly message
func ClassifyError(err error) string {
	if err == nil {
		return ErrGeneric
	}

	// Check for timeout errors
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrTimeout
	}

	// Check for network errors
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrTimeout
		}
		return ErrNetworkIssue
	}

	// Check for syscall errors (connection refused, etc.)
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Err == syscall.ECONNREFUSED {
			return ErrServiceUnavailable
		}
		return ErrNetworkIssue
	}

	// Check error message for common patterns
	errMsg := err.Error()
	switch {
	case strings.Contains(errMsg, "connection refused"):
		return ErrServiceUnavailable
	case strings.Contains(errMsg, "timeout"):
		return ErrTimeout
	case strings.Contains(errMsg, "network"):
		return ErrNetworkIssue
	case strings.Contains(errMsg, "unavailable"):
		return ErrServiceUnavailable
	case strings.Contains(errMsg, "quota"):
		return ErrQuotaExceeded
	}

	// Default to generic error
	return ErrGeneric
}
