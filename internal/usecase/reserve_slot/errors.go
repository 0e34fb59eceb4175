package reserve_slot

import "errors"

var (
	// ErrDoctorNotFound возвращается, когда врач не найден или неактивен
	ErrDoctorNotFound = errors.New("reserve_slot: doctor not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена или принадлежит другой клинике
	ErrServiceNotFound = errors.New("reserve_slot: service not found")

	// ErrPatientNotFound возвращается, когда пациент не найден в PatientService
	ErrPatientNotFound = errors.New("reserve_slot: patient not found")

	// ErrSlotConflict возвращается, когда запрошенный интервал пересекается с активной записью
	ErrSlotConflict = errors.New("reserve_slot: slot already taken")

	// ErrOutOfWindow возвращается, когда слот вне рабочих часов, не выровнен по сетке
	// или нарушает ограничения lead time / advance booking
	ErrOutOfWindow = errors.New("reserve_slot: slot is outside the bookable window")

	// ErrBusy возвращается, когда очередь бронирований врача занята дольше лимита ожидания
	ErrBusy = errors.New("reserve_slot: doctor booking queue is busy")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reserve_slot: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reserve_slot: internal error")
)
