package cmd

import (
	"context"
	"errors"
	"log/slog"

	apihttp "logistics/internal/adapters/in/http"
	"logistics/internal/adapters/out/kafka"
	"logistics/internal/adapters/out/metrics"
	"logistics/internal/adapters/out/postgres"
	"logistics/internal/core/application/usecases/commands"
	"logistics/internal/core/application/usecases/queries"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/services"
	"logistics/internal/core/ports"
	"logistics/internal/jobs"

	"github.com/IBM/sarama"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	env        commands.Env
	registry   *prometheus.Registry
	producer   sarama.SyncProducer
	logger     *slog.Logger
}

// NewCompositionRoot wires the adapters around gormDB. Kafka publishing is
// enabled only when brokers are configured.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	fees, err := feeSchedule(cfg)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	workflowMetrics, err := metrics.NewWorkflowMetrics(registry)
	if err != nil {
		return nil, err
	}

	root := &CompositionRoot{
		cfg:      cfg,
		gormDB:   gormDB,
		registry: registry,
		logger:   logger,
		env: commands.Env{
			Policy:  services.NewAccessPolicy(),
			Locator: services.NewBranchLocator(cfg.BranchRadiusKm),
			Fees:    fees,
			Metrics: workflowMetrics,
			Logger:  logger,
		},
	}

	var publisher ports.OrderEventPublisher
	if brokers := kafka.ParseBrokers(cfg.KafkaBrokers); len(brokers) > 0 {
		root.producer, err = kafka.NewSyncProducer(brokers, cfg.KafkaClientID)
		if err != nil {
			return nil, err
		}
		publisher = kafka.NewOrderEventPublisher(root.producer, cfg.KafkaOrderChangedTopic)
		logger.Info("Order events enabled", "brokers", brokers, "topic", cfg.KafkaOrderChangedTopic)
	}
	root.uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB, publisher, logger)
	return root, nil
}

func feeSchedule(cfg Config) (services.FeeSchedule, error) {
	threshold, err1 := kernel.MoneyFromFloat(cfg.FeeThreshold)
	high, err2 := kernel.MoneyFromFloat(cfg.FeeHigh)
	low, err3 := kernel.MoneyFromFloat(cfg.FeeLow)
	if err := errors.Join(err1, err2, err3); err != nil {
		return services.FeeSchedule{}, err
	}

	schedule := services.FeeSchedule{Threshold: threshold, HighFee: high, LowFee: low}
	if cfg.ReturnPickupFee >= 0 {
		pickup, err := kernel.MoneyFromFloat(cfg.ReturnPickupFee)
		if err != nil {
			return services.FeeSchedule{}, err
		}
		schedule.ReturnPickupFee = &pickup
	}
	return schedule, nil
}

// Registry is the Prometheus registry served on /metrics.
func (c *CompositionRoot) Registry() *prometheus.Registry {
	return c.registry
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) uoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.env)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.uoWFactory(), c.env)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	return commands.NewUpdateOrderStatusCommandHandler(c.uoWFactory(), c.env)
}

func (c *CompositionRoot) CreateAssignOrderToBranchCommandHandler() commands.AssignOrderToBranchCommandHandler {
	return commands.NewAssignOrderToBranchCommandHandler(c.uoWFactory(), c.env)
}

func (c *CompositionRoot) CreateOfferToPartnerCommandHandler() commands.OfferToPartnerCommandHandler {
	return commands.NewOfferToPartnerCommandHandler(c.uoWFactory(), c.env)
}

func (c *CompositionRoot) CreateAcceptAssignmentCommandHandler() commands.AcceptAssignmentCommandHandler {
	return commands.NewAcceptAssignmentCommandHandler(c.uoWFactory(), c.env)
}

func (c *CompositionRoot) CreateRejectAssignmentCommandHandler() commands.RejectAssignmentCommandHandler {
	return commands.NewRejectAssignmentCommandHandler(c.uoWFactory(), c.env)
}

func (c *CompositionRoot) CreateReassignPartnerCommandHandler() commands.ReassignPartnerCommandHandler {
	return commands.NewReassignPartnerCommandHandler(c.uoWFactory(), c.env)
}

func (c *CompositionRoot) CreateUpdateDeliveryStatusCommandHandler() commands.UpdateDeliveryStatusCommandHandler {
	return commands.NewUpdateDeliveryStatusCommandHandler(c.uoWFactory(), c.env)
}

func (c *CompositionRoot) CreateRequestReturnCommandHandler() commands.RequestReturnCommandHandler {
	return commands.NewRequestReturnCommandHandler(c.uoWFactory(), c.env)
}

func (c *CompositionRoot) CreateSetReturnApprovalCommandHandler() commands.SetReturnApprovalCommandHandler {
	return commands.NewSetReturnApprovalCommandHandler(c.uoWFactory(), c.env)
}

func (c *CompositionRoot) CreateSetRefundStatusCommandHandler() commands.SetRefundStatusCommandHandler {
	return commands.NewSetRefundStatusCommandHandler(c.uoWFactory(), c.env)
}

func (c *CompositionRoot) CreateCreateBranchCommandHandler() commands.CreateBranchCommandHandler {
	return commands.NewCreateBranchCommandHandler(c.uoWFactory(), c.env)
}

func (c *CompositionRoot) CreateAddPartnerToBranchCommandHandler() commands.AddPartnerToBranchCommandHandler {
	return commands.NewAddPartnerToBranchCommandHandler(c.uoWFactory(), c.env)
}

func (c *CompositionRoot) CreateRegisterPartnerCommandHandler() commands.RegisterPartnerCommandHandler {
	return commands.NewRegisterPartnerCommandHandler(c.uoWFactory(), c.env)
}

func (c *CompositionRoot) CreateReconcileAssignmentsCommandHandler() commands.ReconcileAssignmentsCommandHandler {
	return commands.NewReconcileAssignmentsCommandHandler(c.uoWFactory(), c.env)
}

func (c *CompositionRoot) CreateExpireOffersCommandHandler() commands.ExpireOffersCommandHandler {
	return commands.NewExpireOffersCommandHandler(c.uoWFactory(), c.env)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.uowFactory.Create().OrderRepository(), c.env.Policy)
}

func (c *CompositionRoot) CreateGetBranchOrdersQueryHandler() queries.GetBranchOrdersQueryHandler {
	return queries.NewGetBranchOrdersQueryHandler(c.gormDB, c.env.Policy)
}

func (c *CompositionRoot) CreateGetPartnerOrdersQueryHandler() queries.GetPartnerOrdersQueryHandler {
	return queries.NewGetPartnerOrdersQueryHandler(c.gormDB, c.env.Policy)
}

// NewRouter builds the HTTP server with every handler attached.
func (c *CompositionRoot) NewRouter(ctx context.Context) (*echo.Echo, error) {
	handlers := apihttp.Handlers{
		CreateOrder:          c.CreateCreateOrderCommandHandler(),
		CancelOrder:          c.CreateCancelOrderCommandHandler(),
		UpdateOrderStatus:    c.CreateUpdateOrderStatusCommandHandler(),
		AssignOrderToBranch:  c.CreateAssignOrderToBranchCommandHandler(),
		OfferToPartner:       c.CreateOfferToPartnerCommandHandler(),
		AcceptAssignment:     c.CreateAcceptAssignmentCommandHandler(),
		RejectAssignment:     c.CreateRejectAssignmentCommandHandler(),
		ReassignPartner:      c.CreateReassignPartnerCommandHandler(),
		UpdateDeliveryStatus: c.CreateUpdateDeliveryStatusCommandHandler(),
		RequestReturn:        c.CreateRequestReturnCommandHandler(),
		SetReturnApproval:    c.CreateSetReturnApprovalCommandHandler(),
		SetRefundStatus:      c.CreateSetRefundStatusCommandHandler(),
		CreateBranch:         c.CreateCreateBranchCommandHandler(),
		AddPartnerToBranch:   c.CreateAddPartnerToBranchCommandHandler(),
		RegisterPartner:      c.CreateRegisterPartnerCommandHandler(),
		ReconcileAssignments: c.CreateReconcileAssignmentsCommandHandler(),
		ExpireOffers:         c.CreateExpireOffersCommandHandler(),
		GetOrder:             c.CreateGetOrderQueryHandler(),
		GetBranchOrders:      c.CreateGetBranchOrdersQueryHandler(),
		GetPartnerOrders:     c.CreateGetPartnerOrdersQueryHandler(),
	}
	return apihttp.NewRouter(ctx, apihttp.NewServer(handlers, c.logger), c.registry, c.logger)
}

// NewJobManager schedules reconciliation and, with an offer timeout, offer expiry.
func (c *CompositionRoot) NewJobManager() *jobs.JobManager {
	reconcile := c.CreateReconcileAssignmentsCommandHandler()
	expire := c.CreateExpireOffersCommandHandler()
	return jobs.NewJobManager(&reconcile, &expire, jobs.Schedules{
		Reconcile:    c.cfg.ReconcileSchedule,
		OfferExpiry:  c.cfg.OfferExpirySchedule,
		OfferTimeout: c.cfg.OfferTimeout,
		OfferBatch:   c.cfg.OfferBatchSize,
	}, c.logger)
}

// Close releases the Kafka producer.
func (c *CompositionRoot) Close() error {
	if c.producer == nil {
		return nil
	}
	return c.producer.Close()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
