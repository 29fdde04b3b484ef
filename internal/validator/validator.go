// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"ledgerly/internal/ledger"
	"ledgerly/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("iso4217", validateISO4217)
		_ = v.RegisterValidation("operation_kind", validateOperationKind)
		_ = v.RegisterValidation("metric_type", validateMetricType)
		_ = v.RegisterValidation("sharpe_frequency", validateSharpeFrequency)
	}
}

// IsCurrency reports whether code is a known ISO 4217 currency code.
func IsCurrency(code string) bool {
	if len(code) != 3 {
		return false
	}
	return money.GetCurrency(strings.ToUpper(code)) != nil
}

func validateISO4217(fl validator.FieldLevel) bool {
	return IsCurrency(fl.Field().String())
}

func validateOperationKind(fl validator.FieldLevel) bool {
	return models.OperationKind(fl.Field().String()).Valid()
}

func validateMetricType(fl validator.FieldLevel) bool {
	return models.MetricType(fl.Field().String()).Valid()
}

func validateSharpeFrequency(fl validator.FieldLevel) bool {
	_, err := ledger.ParseFrequency(fl.Field().String())
	return err == nil
}
