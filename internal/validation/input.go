package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MinNameLength         = 2
	MaxNameLength         = 100
	MinItemNameLength     = 2
	MaxItemNameLength     = 200
	MaxItemDescription    = 5000
	MinPrice              = 0.01
	MaxPrice              = 1000000.0
	MinMessageLength      = 1
	MaxMessageLength      = 1000
	MinEvidenceTextLength = 10
	MaxEvidenceTextLength = 5000
	MaxCommentLength      = 500
	MaxCollegeLength      = 200
	MaxPhotosPerItem      = 10
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}

	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}

	localRegex := regexp.MustCompile(`^[a-z0-9._+-]+$`)
	if !localRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}

	domainRegex := regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	if !domainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidateName проверяет имя пользователя.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("имя обязательно")
	}
	return ValidateLength("имя", strings.TrimSpace(name), MinNameLength, MaxNameLength)
}

// ValidateItemName проверяет название товара.
func ValidateItemName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("название товара обязательно")
	}
	return ValidateLength("название товара", strings.TrimSpace(name), MinItemNameLength, MaxItemNameLength)
}

// ValidatePrice проверяет цену товара.
func ValidatePrice(price float64) error {
	if price < MinPrice {
		return fmt.Errorf("цена должна быть положительной")
	}
	if price > MaxPrice {
		return fmt.Errorf("цена не может превышать %.0f", MaxPrice)
	}
	return nil
}

// ValidateMessageContent проверяет содержимое сообщения чата.
func ValidateMessageContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("сообщение не может быть пустым")
	}
	return ValidateLength("сообщение", content, MinMessageLength, MaxMessageLength)
}

// ValidateEvidenceText проверяет описание претензии по спору.
func ValidateEvidenceText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("описание претензии обязательно")
	}
	return ValidateLength("описание претензии", strings.TrimSpace(text), MinEvidenceTextLength, MaxEvidenceTextLength)
}

// ValidateStars проверяет оценку в звёздах.
func ValidateStars(stars int) error {
	if stars < 1 || stars > 5 {
		return fmt.Errorf("оценка должна быть от 1 до 5")
	}
	return nil
}

// ValidateComment проверяет комментарий к оценке.
func ValidateComment(comment *string) error {
	if comment != nil && *comment != "" {
		return ValidateLength("комментарий", *comment, 0, MaxCommentLength)
	}
	return nil
}

// ValidatePhotos проверяет список URL фотографий.
func ValidatePhotos(photos []string) error {
	if len(photos) > MaxPhotosPerItem {
		return fmt.Errorf("количество фотографий не может превышать %d", MaxPhotosPerItem)
	}
	for _, photo := range photos {
		if strings.TrimSpace(photo) == "" {
			return fmt.Errorf("ссылка на фотографию не может быть пустой")
		}
	}
	return nil
}
