package main

import (
	"fmt"
	"net/http"

	"github.com/mitrakarya/workforce-backend-go/internal/config"
	appHTTP "github.com/mitrakarya/workforce-backend-go/internal/handler/http"
	"github.com/mitrakarya/workforce-backend-go/internal/pkg/database"
	"github.com/mitrakarya/workforce-backend-go/internal/pkg/jwt"
	"github.com/mitrakarya/workforce-backend-go/internal/repository/postgresql"
	approvalService "github.com/mitrakarya/workforce-backend-go/internal/service/approval"
	attendanceService "github.com/mitrakarya/workforce-backend-go/internal/service/attendance"
	loanService "github.com/mitrakarya/workforce-backend-go/internal/service/loan"
	payrollService "github.com/mitrakarya/workforce-backend-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	configRepo := postgresql.NewConfigRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	loanRepo := postgresql.NewLoanRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	approvalRepo := postgresql.NewApprovalRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		employeeRepo,
		shiftRepo,
		configRepo,
	)
	payrollSvc := payrollService.NewPayrollService(
		payrollRepo,
		attendanceRepo,
		employeeRepo,
		leaveRepo,
		loanRepo,
		configRepo,
		auditRepo,
		cfg.Payroll.BatchSize,
	)
	approvalSvc := approvalService.NewApprovalService(
		approvalRepo,
		employeeRepo,
		configRepo,
		leaveRepo,
		auditRepo,
	)
	loanSvc := loanService.NewLoanService(loanRepo, employeeRepo)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	approvalHandler := appHTTP.NewApprovalHandler(approvalSvc)
	loanHandler := appHTTP.NewLoanHandler(loanSvc)
	auditHandler := appHTTP.NewAuditHandler(auditRepo)

	router := appHTTP.NewRouter(
		jwtService,
		attendanceHandler,
		payrollHandler,
		approvalHandler,
		loanHandler,
		auditHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
