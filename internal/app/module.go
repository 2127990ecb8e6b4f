package app

import (
	"time"

	"github.com/fatmeal/commerce/internal/app/api/server"
	"github.com/fatmeal/commerce/internal/app/service/billing"
	"github.com/fatmeal/commerce/internal/app/service/checkout"
	"github.com/fatmeal/commerce/internal/app/service/eventlog"
	"github.com/fatmeal/commerce/internal/app/service/fulfillment"
	"github.com/fatmeal/commerce/internal/app/service/inventory"
	"github.com/fatmeal/commerce/internal/app/service/notifier"
	"github.com/fatmeal/commerce/internal/app/service/schedule"
	"github.com/fatmeal/commerce/internal/app/service/stats"
	"github.com/fatmeal/commerce/internal/app/service/subscription"
	"github.com/fatmeal/commerce/internal/platform/db"
	"github.com/fatmeal/commerce/internal/repository"
	"github.com/fatmeal/commerce/pkg/config"
	"github.com/fatmeal/commerce/pkg/logger"

	"go.uber.org/fx"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	repository.Module,
	server.Module,
	schedule.Module,
	subscription.Module,
	billing.Module,
	fulfillment.Module,
	checkout.Module,
	inventory.Module,
	notifier.Module,
	eventlog.Module,
	stats.Module,
)
