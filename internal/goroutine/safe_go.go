package goroutine

import (
	"runtime/debug"

	"github.com/sirupsen/logrus"

	"github.com/quickgrab/backend/internal/logger"
)

// SafeGo запускает функцию в отдельной горутине и перехватывает панику,
// чтобы фоновая задача не уронила весь процесс.
func SafeGo(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				if logger.Log != nil {
					logger.Log.WithFields(logrus.Fields{
						"goroutine": name,
						"panic":     r,
						"stack":     string(debug.Stack()),
					}).Error("паника в фоновой горутине")
				}
			}
		}()
		fn()
	}()
}
