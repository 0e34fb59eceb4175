package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelAppointmentHandler "github.com/clinicbot-ai/scheduling-service/internal/api/handlers/cancel_appointment"
	getAppointmentHandler "github.com/clinicbot-ai/scheduling-service/internal/api/handlers/get_appointment"
	getClinicPoliciesHandler "github.com/clinicbot-ai/scheduling-service/internal/api/handlers/get_clinic_policies"
	getDoctorAppointmentsHandler "github.com/clinicbot-ai/scheduling-service/internal/api/handlers/get_doctor_appointments"
	getFreeSlotsHandler "github.com/clinicbot-ai/scheduling-service/internal/api/handlers/get_free_slots"
	getPatientAppointmentsHandler "github.com/clinicbot-ai/scheduling-service/internal/api/handlers/get_patient_appointments"
	rescheduleAppointmentHandler "github.com/clinicbot-ai/scheduling-service/internal/api/handlers/reschedule_appointment"
	reserveSlotHandler "github.com/clinicbot-ai/scheduling-service/internal/api/handlers/reserve_slot"
	updateAppointmentStatusHandler "github.com/clinicbot-ai/scheduling-service/internal/api/handlers/update_appointment_status"
	updateClinicPolicyHandler "github.com/clinicbot-ai/scheduling-service/internal/api/handlers/update_clinic_policy"
	"github.com/clinicbot-ai/scheduling-service/internal/api/middleware"
	"github.com/clinicbot-ai/scheduling-service/internal/config"
	appointmentRepo "github.com/clinicbot-ai/scheduling-service/internal/infra/storage/appointment"
	catalogRepo "github.com/clinicbot-ai/scheduling-service/internal/infra/storage/catalog"
	policyRepo "github.com/clinicbot-ai/scheduling-service/internal/infra/storage/policy"
	scheduleRepo "github.com/clinicbot-ai/scheduling-service/internal/infra/storage/schedule"
	patientServiceClient "github.com/clinicbot-ai/scheduling-service/internal/integrations/patientservice"
	"github.com/clinicbot-ai/scheduling-service/internal/schedule"
	appointmentsService "github.com/clinicbot-ai/scheduling-service/internal/service/appointments"
	policyService "github.com/clinicbot-ai/scheduling-service/internal/service/policy"
	getFreeSlotsUC "github.com/clinicbot-ai/scheduling-service/internal/usecase/get_free_slots"
	rescheduleAppointmentUC "github.com/clinicbot-ai/scheduling-service/internal/usecase/reschedule_appointment"
	reserveSlotUC "github.com/clinicbot-ai/scheduling-service/internal/usecase/reserve_slot"
	"github.com/clinicbot-ai/scheduling-service/pkg/dbmetrics"
	"github.com/clinicbot-ai/scheduling-service/pkg/keymutex"
	"github.com/clinicbot-ai/scheduling-service/pkg/logger"
	"github.com/clinicbot-ai/scheduling-service/pkg/metrics"
	"github.com/clinicbot-ai/scheduling-service/pkg/simpletxmanager"
	"github.com/clinicbot-ai/scheduling-service/pkg/txmanager"
)

// noopObserver используется вместо метрик, когда они выключены
type noopObserver struct{}

func (noopObserver) ObserveReservation(string) {}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting scheduling-service...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем клиента PatientService
	patientClient := patientServiceClient.NewClient(
		cfg.PatientService.URL,
		time.Duration(cfg.PatientService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration client initialized (PatientService=%s timeout=%ds)",
		cfg.PatientService.URL, cfg.PatientService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		catalogRepository     *catalogRepo.Repository
		policyRepository      *policyRepo.Repository
		scheduleRepository    *scheduleRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		policyRepository = policyRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		catalogRepository = catalogRepo.NewRepository(db)
		policyRepository = policyRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	var reservationObserver interface{ ObserveReservation(string) } = noopObserver{}
	if cfg.Metrics.Enabled {
		reservationObserver = metricsCollector
	}

	// Календарь и per-doctor guard
	calendar := schedule.NewCalendar(scheduleRepository, scheduleRepository)
	doctorGuard := keymutex.New()
	guardLockWait := time.Duration(cfg.Booking.GuardLockWait) * time.Second

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		catalogRepository,
		log,
	)
	policySvc := policyService.NewService(
		policyRepository,
		catalogRepository,
		log,
	)

	// Инициализируем use cases
	getFreeSlotsUseCase := getFreeSlotsUC.NewUseCase(
		appointmentRepository,
		catalogRepository,
		policyRepository,
		calendar,
		log,
	)

	reserveSlotUseCase := reserveSlotUC.NewUseCase(
		appointmentRepository,
		catalogRepository,
		policyRepository,
		calendar,
		patientClient,
		txMgr,
		doctorGuard,
		reservationObserver,
		guardLockWait,
		log,
	)

	rescheduleAppointmentUseCase := rescheduleAppointmentUC.NewUseCase(
		appointmentRepository,
		catalogRepository,
		policyRepository,
		calendar,
		txMgr,
		doctorGuard,
		reservationObserver,
		guardLockWait,
		log,
	)

	// Инициализируем handlers
	getFreeSlots := getFreeSlotsHandler.NewHandler(getFreeSlotsUseCase, log)
	reserveSlot := reserveSlotHandler.NewHandler(reserveSlotUseCase, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(rescheduleAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentSvc, log)
	getDoctorAppointments := getDoctorAppointmentsHandler.NewHandler(appointmentSvc, log)
	getPatientAppointments := getPatientAppointmentsHandler.NewHandler(appointmentSvc, log)
	getClinicPolicies := getClinicPoliciesHandler.NewHandler(policySvc, log)
	updateClinicPolicy := updateClinicPolicyHandler.NewHandler(policySvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")

		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты врача на дату
	api.HandleFunc("/doctors/{doctorId}/free-slots",
		getFreeSlots.Handle).Methods(http.MethodGet)

	// Политики планирования клиники
	api.HandleFunc("/clinics/{clinicId}/policies",
		getClinicPolicies.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-Staff-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи на прием ---
	// Бронирование слота
	protected.HandleFunc("/appointments", reserveSlot.Handle).Methods(http.MethodPost)

	// Получение записи по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Отмена записи
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// Обновление статуса записи
	protected.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// Перенос записи на другой слот
	protected.HandleFunc("/appointments/{appointmentId}/reschedule", rescheduleAppointment.Handle).Methods(http.MethodPost)

	// Расписание врача
	protected.HandleFunc("/doctors/{doctorId}/appointments", getDoctorAppointments.Handle).Methods(http.MethodGet)

	// История записей пациента
	protected.HandleFunc("/patients/{patientRef}/appointments", getPatientAppointments.Handle).Methods(http.MethodGet)

	// --- Управление политиками ---
	protected.HandleFunc("/clinics/{clinicId}/policies", updateClinicPolicy.Handle).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
