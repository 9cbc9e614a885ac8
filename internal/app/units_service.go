package app

import (
	"context"
	"log/slog"

	"github.com/Mnehmos/provecalc-engine/internal/domain"
	"github.com/Mnehmos/provecalc-engine/internal/ports"
	"github.com/Mnehmos/provecalc-engine/internal/units"
)

// classifyWorkers bounds the concurrency of a batch classification.
const classifyWorkers = 8

// UnitsService implements ports.UnitService over the unit registry.
type UnitsService struct {
	logger     *slog.Logger
	registry   *units.Registry
	classifier *units.Classifier
	validator  *units.Validator
}

var _ ports.UnitService = (*UnitsService)(nil)

// NewUnitsService creates the dimensional analysis service.
func NewUnitsService(logger *slog.Logger, registry *units.Registry) *UnitsService {
	if logger == nil {
		logger = slog.Default()
	}
	if registry == nil {
		registry = units.NewRegistry()
	}

	return &UnitsService{
		logger:     logger,
		registry:   registry,
		classifier: units.NewClassifier(registry),
		validator:  units.NewValidator(registry),
	}
}

// Convert converts a value between compatible units.
func (s *UnitsService) Convert(ctx context.Context, value float64, from, to string) (ports.UnitConversion, error) {
	converted, err := s.registry.Convert(value, from, to)
	if err != nil {
		return ports.UnitConversion{}, err
	}

	s.logger.DebugContext(ctx, "unit converted",
		slog.String("from", from),
		slog.String("to", to),
	)

	return ports.UnitConversion{
		Value:     value,
		FromUnit:  from,
		ToUnit:    to,
		Converted: converted,
	}, nil
}

// Dimensions resolves the dimension vector of a unit expression.
func (s *UnitsService) Dimensions(ctx context.Context, unit string) (ports.UnitDimensions, error) {
	dim, err := s.registry.Dimensions(unit)
	if err != nil {
		return ports.UnitDimensions{}, err
	}

	result := ports.UnitDimensions{
		Unit:       unit,
		Dimensions: dim.Map(),
		Rendered:   dim.String(),
		BaseUnits:  units.BaseUnitString(dim),
	}
	if derived, ok := units.Derived(dim); ok {
		result.DerivedName = derived.Name
	}

	return result, nil
}

// ValidateEquation checks an equation for dimensional consistency.
func (s *UnitsService) ValidateEquation(ctx context.Context, req ports.ValidateEquationRequest) (domain.UnitValidation, error) {
	if req.Equation == "" {
		return domain.UnitValidation{}, domain.NewValidationError("equation", "equation is required")
	}

	specs := make(map[string]units.VariableSpec, len(req.Variables))
	for name, input := range req.Variables {
		specs[name] = units.VariableSpec{Value: input.Value, Unit: input.Unit}
	}

	validation := s.validator.ValidateEquation(req.Equation, specs, req.Target)

	s.logger.DebugContext(ctx, "equation validated",
		slog.String("equation", req.Equation),
		slog.Bool("valid", validation.Valid),
	)

	return validation, nil
}

// Classify assigns a unit expression to an engineering domain.
func (s *UnitsService) Classify(ctx context.Context, unit string) (domain.DomainClassification, error) {
	if unit == "" {
		return domain.DomainClassification{}, domain.NewValidationError("unit", "unit is required")
	}

	return s.classifier.Classify(unit), nil
}

// ClassifyBatch classifies several unit expressions concurrently.
// Classification is advisory, so an unparseable entry yields an unknown
// classification instead of failing the batch.
func (s *UnitsService) ClassifyBatch(ctx context.Context, unitExprs []string) ([]domain.DomainClassification, error) {
	fns := make([]func(context.Context) (domain.DomainClassification, error), len(unitExprs))
	for i, unit := range unitExprs {
		fns[i] = func(context.Context) (domain.DomainClassification, error) {
			return s.classifier.Classify(unit), nil
		}
	}

	results := ParallelPartialLimit(ctx, classifyWorkers, fns...)

	out := make([]domain.DomainClassification, len(results))
	for i, r := range results {
		if r.Err != nil {
			return nil, r.Err
		}
		out[i] = r.Value
	}

	return out, nil
}

// Domains lists the engineering domain metadata.
func (s *UnitsService) Domains(_ context.Context) []domain.DomainInfo {
	return units.Domains()
}

// Constants lists the physical constants.
func (s *UnitsService) Constants(_ context.Context) []domain.Constant {
	return units.Constants()
}

// Constant looks up one physical constant by name.
func (s *UnitsService) Constant(_ context.Context, name string) (domain.Constant, error) {
	return units.LookupConstant(name)
}
