package mocks

//go:generate mockgen -destination=./mock_engine.go -package=mocks github.com/rxtech-lab/argo-optimizer/internal/backtest Engine
//go:generate mockgen -destination=./mock_price_source.go -package=mocks github.com/rxtech-lab/argo-optimizer/internal/datasource PriceSource
//go:generate mockgen -destination=./mock_strategy_registry.go -package=mocks github.com/rxtech-lab/argo-optimizer/internal/strategy Registry
