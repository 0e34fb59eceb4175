package reschedule_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("reschedule_appointment: appointment not found")

	// ErrNotReschedulable возвращается, когда запись уже отменена или завершена
	ErrNotReschedulable = errors.New("reschedule_appointment: appointment is not active")

	// ErrSlotConflict возвращается, когда новый интервал пересекается с другой активной записью
	ErrSlotConflict = errors.New("reschedule_appointment: slot already taken")

	// ErrOutOfWindow возвращается, когда новый слот вне рабочих часов или сетки
	ErrOutOfWindow = errors.New("reschedule_appointment: slot is outside the bookable window")

	// ErrBusy возвращается, когда очередь бронирований врача занята дольше лимита ожидания
	ErrBusy = errors.New("reschedule_appointment: doctor booking queue is busy")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_appointment: internal error")
)
