package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"

	"razorpayBack/internal/models"
	"razorpayBack/internal/razorpay"
)

// maxReceiptLen is the gateway's limit on the receipt field.
const maxReceiptLen = 40

var ErrGateway = errors.New("payment gateway failure")

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

type OrderGateway interface {
	CreateOrder(ctx context.Context, req razorpay.OrderRequest) (json.RawMessage, error)
}

type OrderServiceConfig struct {
	Gateway       OrderGateway
	Currencies    []string
	MaxAmount     int64
	ReceiptPrefix string
	Logger        *slog.Logger
}

type OrderService struct {
	gateway       OrderGateway
	currencies    []string
	maxAmount     int64
	receiptPrefix string
	validate      *validator.Validate
	newID         func() string
	logger        *slog.Logger
}

func NewOrderService(cfg OrderServiceConfig) (*OrderService, error) {
	if cfg.Gateway == nil {
		return nil, errors.New("order service: gateway is required")
	}
	if cfg.MaxAmount <= 0 {
		return nil, errors.New("order service: max amount must be positive")
	}
	currencies := make([]string, 0, len(cfg.Currencies))
	for _, c := range cfg.Currencies {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c != "" && !slices.Contains(currencies, c) {
			currencies = append(currencies, c)
		}
	}
	if len(currencies) == 0 {
		return nil, errors.New("order service: at least one currency is required")
	}
	slices.Sort(currencies)

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &OrderService{
		gateway:       cfg.Gateway,
		currencies:    currencies,
		maxAmount:     cfg.MaxAmount,
		receiptPrefix: cfg.ReceiptPrefix,
		validate:      v,
		newID:         func() string { return strings.ReplaceAll(uuid.NewString(), "-", "") },
		logger:        logger,
	}, nil
}

// Currencies returns the accepted ISO 4217 codes, sorted.
func (s *OrderService) Currencies() []string {
	return slices.Clone(s.currencies)
}

// CreateOrder validates the client input and creates an order at the gateway.
// The gateway's order object is returned untouched.
func (s *OrderService) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (json.RawMessage, error) {
	currency, err := s.check(req)
	if err != nil {
		return nil, err
	}

	receipt := s.receipt()
	logger := s.logger.With("op", "CreateOrder", "receipt", receipt)

	order, err := s.gateway.CreateOrder(ctx, razorpay.OrderRequest{
		Amount:   req.Amount,
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		logger.ErrorContext(ctx, "create order failed", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrGateway, err)
	}

	var head struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(order, &head)
	logger.InfoContext(ctx, "order created", "order_id", head.ID, "amount", req.Amount, "currency", currency)
	return order, nil
}

func (s *OrderService) check(req models.CreateOrderRequest) (string, error) {
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return "", fieldError(verrs[0])
		}
		return "", &ValidationError{Field: "body", Message: err.Error()}
	}
	if req.Amount > s.maxAmount {
		return "", &ValidationError{Field: "amount", Message: fmt.Sprintf("must not exceed %d", s.maxAmount)}
	}
	currency := strings.ToUpper(req.Currency)
	if !slices.Contains(s.currencies, currency) {
		return "", &ValidationError{Field: "currency", Message: "must be one of " + strings.Join(s.currencies, ", ")}
	}
	return currency, nil
}

func fieldError(fe validator.FieldError) *ValidationError {
	switch fe.Tag() {
	case "required":
		return &ValidationError{Field: fe.Field(), Message: "is required"}
	case "gt":
		return &ValidationError{Field: fe.Field(), Message: "must be greater than " + fe.Param()}
	case "len", "alpha":
		return &ValidationError{Field: fe.Field(), Message: "must be a 3-letter ISO 4217 code"}
	default:
		return &ValidationError{Field: fe.Field(), Message: "failed " + fe.Tag() + " check"}
	}
}

func (s *OrderService) receipt() string {
	r := s.receiptPrefix + s.newID()
	if len(r) > maxReceiptLen {
		r = r[:maxReceiptLen]
	}
	return r
}
