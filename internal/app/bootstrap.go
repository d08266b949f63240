package app

import (
	"errors"
	"time"

	"github.com/inkwell-next/internal/config"
	"github.com/inkwell-next/internal/logger"
	"github.com/inkwell-next/internal/provider"
	"github.com/inkwell-next/internal/router"
	"github.com/inkwell-next/internal/worker"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if !isValidMode(mode) {
		return nil, errors.New("unknown mode: " + mode)
	}

	container := provider.NewContainer(cfg)
	ensureAdministrator(cfg, container)

	var services []Service

	// 初始化 HTTP 服务
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		httpService := NewHTTPService(addr, engine, HTTPTimeouts{
			Read:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
			Write: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		})
		services = append(services, httpService)
	}

	// 初始化 Worker 服务；all 模式下队列未启用时仅运行 HTTP
	if mode == ModeAll || mode == ModeWorker {
		consumer := worker.NewConsumer(container)
		workerService, err := worker.NewService(&cfg.Queue, consumer)
		switch {
		case err == nil:
			services = append(services, workerService)
		case mode == ModeWorker:
			return nil, err
		default:
			logger.Warnw("worker_skipped", "reason", err.Error())
		}
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), nil
}

// ensureAdministrator 按 bootstrap 配置补齐初始管理员，失败仅记录日志
func ensureAdministrator(cfg *config.Config, container *provider.Container) {
	if container == nil || container.BootstrapService == nil {
		return
	}
	if _, err := container.BootstrapService.EnsureAdministrator(cfg.Bootstrap); err != nil {
		logger.Warnw("bootstrap_admin_failed", "email", cfg.Bootstrap.AdminEmail, "error", err)
	}
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	opts.Logger.Infow("app_start", "addr", addr, "mode", opts.Mode, "services", runner.Names())
	return RunWithOptions(runner, opts)
}
