// Command notify emits one billing notification through the full listener
// chain: logging, the Spanner journal, the webhook and the console.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"cloud.google.com/go/spanner"
	"github.com/sirupsen/logrus"
	"github.com/wuyiadepoju/iap-billing/internal/app/billing/adapters"
	"github.com/wuyiadepoju/iap-billing/internal/app/billing/contracts"
	"github.com/wuyiadepoju/iap-billing/internal/app/billing/domain"
	"github.com/wuyiadepoju/iap-billing/internal/app/billing/listener"
	"github.com/wuyiadepoju/iap-billing/internal/app/billing/notifier"
	"github.com/wuyiadepoju/iap-billing/internal/app/billing/repo"
	"github.com/wuyiadepoju/iap-billing/internal/app/billing/usecases/record_notification"
	"github.com/wuyiadepoju/iap-billing/internal/pkg/config"
	"github.com/wuyiadepoju/iap-billing/internal/pkg/logger"
	"google.golang.org/api/option"
)

func main() {
	var (
		configFile = flag.String("config", "", "Path to a config file (yaml, json or toml)")
		req        request
	)
	flag.StringVar(&req.outcome, "outcome", "", "Purchase outcome to deliver, e.g. USER_HAS_PURCHASED_ITEM")
	flag.BoolVar(&req.setupFailed, "setup-failed", false, "Deliver a billing setup failure")
	flag.IntVar(&req.purchaseCode, "purchase-code", 0, "Billing service response code of a purchase update")
	flag.IntVar(&req.queryCode, "query-code", 0, "Billing service response code of a purchase query")
	flag.IntVar(&req.detailsCode, "details-code", 0, "Billing service response code of a product details lookup")
	flag.IntVar(&req.setupCode, "setup-code", 0, "Billing service response code of the setup step")
	flag.StringVar(&req.state, "purchase-state", "", "State of the reported purchase: PURCHASED or PENDING")
	flag.BoolVar(&req.acknowledged, "acknowledged", false, "The reported purchase is already acknowledged")
	flag.BoolVar(&req.verified, "verified", true, "The reported purchase passed validation")
	flag.Parse()

	req.set = map[string]bool{}
	flag.Visit(func(f *flag.Flag) { req.set[f.Name] = true })

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.New(logger.Config{}).WithError(err).Fatal("Failed to load config")
	}
	log := logger.New(cfg.Log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	chain, cleanup, err := buildListener(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to build listener")
	}
	defer cleanup()

	serial := listener.NewSerial(chain, log)
	go func() {
		if err := serial.Run(ctx); err != nil {
			log.WithError(err).Warn("Delivery loop stopped")
		}
	}()

	n := notifier.New(log)
	n.SetListener(serial)

	err = emit(n, log, req)

	serial.Close()
	<-serial.Done()
	n.Detach()

	if err != nil {
		fmt.Fprintf(os.Stderr, "notify: %v\n", err)
		cleanup()
		os.Exit(1)
	}
}

// request is the notification selected on the command line.
type request struct {
	set          map[string]bool
	outcome      string
	setupFailed  bool
	purchaseCode int
	queryCode    int
	detailsCode  int
	setupCode    int
	state        string
	acknowledged bool
	verified     bool
}

// purchases returns the purchase described by -purchase-state, if any.
func (r request) purchases() ([]domain.Purchase, error) {
	if !r.set["purchase-state"] {
		return nil, nil
	}
	state, err := domain.ParsePurchaseState(r.state)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, r.state)
	}
	return []domain.Purchase{{Token: "cli", State: state, Acknowledged: r.acknowledged}}, nil
}

func (r request) validator() notifier.Validator {
	verified := r.verified
	return func(domain.Purchase) bool { return verified }
}

func emit(n *notifier.Notifier, log logrus.FieldLogger, r request) error {
	switch {
	case r.set["outcome"]:
		outcome, err := domain.ParseOutcome(r.outcome)
		if err != nil {
			return fmt.Errorf("%w: %q", err, r.outcome)
		}
		return n.PurchaseUpdated(outcome)
	case r.setupFailed:
		return n.BillingSetupFailed()
	case r.set["purchase-code"], r.set["query-code"]:
		purchases, err := r.purchases()
		if err != nil {
			return err
		}
		var unacknowledged []domain.Purchase
		if r.set["purchase-code"] {
			unacknowledged, err = n.ReportPurchasesUpdated(domain.ResponseCode(r.purchaseCode), purchases, r.validator())
		} else {
			unacknowledged, err = n.ReportQueryResult(domain.ResponseCode(r.queryCode), purchases, r.validator())
		}
		for _, p := range unacknowledged {
			log.WithField("purchase_token", p.Token).Info("Purchase needs acknowledgement")
		}
		return err
	case r.set["purchase-state"]:
		purchases, err := r.purchases()
		if err != nil {
			return err
		}
		resolution, err := n.ReportPurchase(purchases[0], r.verified)
		if resolution == domain.ResolutionAcknowledge {
			log.WithField("purchase_token", purchases[0].Token).Info("Purchase needs acknowledgement")
		}
		return err
	case r.set["details-code"]:
		_, err := n.ReportProductDetailsResult(domain.ResponseCode(r.detailsCode))
		return err
	case r.set["setup-code"]:
		return n.ReportSetupResult(domain.ResponseCode(r.setupCode))
	default:
		return fmt.Errorf("one of -outcome, -setup-failed, -purchase-code, -query-code, -purchase-state, -details-code or -setup-code is required")
	}
}

func buildListener(ctx context.Context, cfg *config.Config, log *logrus.Logger) (contracts.UpdatesListener, func(), error) {
	console := listener.Funcs{
		PurchaseUpdated: func(outcome domain.PurchaseOutcome) {
			fmt.Printf("purchase updated: %s (entitled=%t)\n", outcome, outcome.Entitled())
		},
		BillingSetupFailed: func() {
			fmt.Println("billing setup failed")
		},
	}

	if !cfg.Journal.Enabled {
		return listener.WithLogging(console, log), func() {}, nil
	}

	var opts []option.ClientOption
	if endpoint := cfg.Spanner.Endpoint(); endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	client, err := spanner.NewClient(ctx, cfg.Spanner.DatabasePath(), opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Spanner client: %w", err)
	}

	var sender contracts.NotificationSender
	if cfg.Webhook.URL != "" {
		sender = adapters.NewHTTPNotificationSender(&http.Client{Timeout: cfg.Webhook.Timeout}, cfg.Webhook.URL)
	}

	recorder := record_notification.NewInteractor(repo.NewNotificationRepo(client), sender, domain.RealClock{})
	journal := listener.NewJournal(recorder, log, cfg.Journal.Timeout)

	return listener.WithLogging(listener.Multi(journal, console), log), client.Close, nil
}
