package main

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	boardget "tubeworks/http-server/board/get"
	boardmaterials "tubeworks/http-server/board/materials"
	boardmove "tubeworks/http-server/board/move"
	clientsget "tubeworks/http-server/clients/get"
	clientssave "tubeworks/http-server/clients/save"
	clientsupdate "tubeworks/http-server/clients/update"
	estimatehttp "tubeworks/http-server/estimate"
	jobsget "tubeworks/http-server/jobs/get"
	machinesget "tubeworks/http-server/machines/get"
	ordersget "tubeworks/http-server/orders/get"
	orderssave "tubeworks/http-server/orders/save"
	ordersupdate "tubeworks/http-server/orders/update"
	payrollreport "tubeworks/http-server/payroll/report"
	productsget "tubeworks/http-server/products/get"
	productssave "tubeworks/http-server/products/save"
	productsupdate "tubeworks/http-server/products/update"
	workersget "tubeworks/http-server/workers/get"
	workerssave "tubeworks/http-server/workers/save"
	"tubeworks/internal/config"
	"tubeworks/internal/middleware/auth"
	"tubeworks/internal/service/board"
	"tubeworks/internal/service/estimate"
	"tubeworks/internal/service/payroll"
	"tubeworks/internal/storage/mysql"
)

func routes(
	cfg config.Config,
	log *slog.Logger,
	storage *mysql.Storage,
	boardService *board.Service,
	estimateService *estimate.Service,
	payrollService *payroll.Service,
) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// Production board. The move endpoint is the only way a job changes
	// stage in normal operation.
	router.Get("/api/board", boardget.Board(log, boardService))
	router.Post("/api/board/move", boardmove.MoveStage(log, boardService))
	router.Post("/api/board/materials", boardmaterials.SetMaterials(log, boardService))

	router.Get("/api/jobs", jobsget.Jobs(log, storage))
	router.Get("/api/jobs/{orderNum}", jobsget.Job(log, boardService))

	router.Get("/api/orders", ordersget.GetOrdersFilter(log, storage))
	router.Get("/api/orders/{orderNum}", ordersget.GetOrder(log, storage))
	router.Post("/api/orders", orderssave.SaveOrder(log, storage))
	router.Put("/api/orders/{orderNum}", ordersupdate.UpdateOrder(log, storage))

	router.Get("/api/clients", clientsget.GetClients(log, storage))
	router.Get("/api/clients/{id}", clientsget.GetClient(log, storage))
	router.Post("/api/clients", clientssave.SaveClient(log, storage))
	router.Put("/api/clients/{id}", clientsupdate.UpdateClient(log, storage))

	router.Get("/api/products", productsget.GetProducts(log, storage))
	router.Get("/api/products/{code}", productsget.GetProduct(log, storage))

	router.Get("/api/machines", machinesget.GetMachineLines(log))

	router.Post("/api/estimate", estimatehttp.Estimate(log, estimateService))

	router.Get("/api/workers", workersget.GetWorkers(log, storage))
	router.Post("/api/workers", workerssave.SaveWorker(log, storage))
	router.Post("/api/timesheets", workerssave.SaveTimesheet(log, storage))

	router.Get("/api/payroll/report", payrollreport.PayrollReport(log, payrollService))

	// Admin surface: catalogue edits and the stage jump that bypasses the
	// one-step rule.
	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))

	adminRouter.Post("/board/jump", boardmove.JumpStage(log, boardService))
	adminRouter.Post("/products", productssave.SaveProduct(log, storage))
	adminRouter.Put("/products/{code}", productsupdate.UpdateProduct(log, storage))

	router.Mount("/api/admin", adminRouter)

	return router
}
