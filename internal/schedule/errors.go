package schedule

import "errors"

var (
	// ErrAmbiguousLocalTime возвращается, когда локальное время не существует
	// в зоне клиники (попадает в пропуск при переводе часов вперёд)
	ErrAmbiguousLocalTime = errors.New("schedule: local time does not exist in this timezone")

	// ErrUnknownTimezone возвращается при неизвестном имени IANA-зоны
	ErrUnknownTimezone = errors.New("schedule: unknown timezone")
)
