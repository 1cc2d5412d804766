package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Warning efecto secundario degradado pero no fatal (ej: caja no registrada,
// notificación no enviada). La operación principal ya quedó confirmada.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Códigos de warning.
const (
	WarnCashLedger   = "CASH_LEDGER_FAILED"
	WarnNotification = "NOTIFICATION_FAILED"
	WarnDebtLimit    = "DEBT_LIMIT_EXCEEDED"
)
