package patientservice

import "errors"

var (
	// ErrPatientNotFound возвращается, когда пациент не найден по ссылке
	ErrPatientNotFound = errors.New("patient not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("patientservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("patientservice client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Указывает, что PatientService недоступен и бронирование продолжается
	// только с patientRef, без данных пациента
	ErrServiceDegraded = errors.New("patientservice unavailable: graceful degradation applied")
)
