package get_free_slots

import "errors"

var (
	// ErrDoctorNotFound возвращается, когда врач не найден или неактивен
	ErrDoctorNotFound = errors.New("get_free_slots: doctor not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена или принадлежит другой клинике
	ErrServiceNotFound = errors.New("get_free_slots: service not found")

	// ErrInvalidDate возвращается при дате в прошлом
	ErrInvalidDate = errors.New("get_free_slots: invalid date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("get_free_slots: date is too far in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_free_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_free_slots: internal error")
)
