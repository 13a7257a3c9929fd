package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldChatID    = "chat_id"
	FieldCommand   = "command"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldMonth     = "month"
	FieldCategory  = "category"
	FieldAmount    = "amount"
	FieldEventID   = "event_id"
	FieldBackend   = "backend"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentBot     = "bot"
	ComponentBudget  = "budget"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
	ComponentBackend = "backend"
)

// Operations defines standard operation names
const (
	OpExpense = "expense"
	OpIncome  = "income"
	OpMove    = "move"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithLedgerChange adds the fields describing one budget mutation.
func (f LogFields) WithLedgerChange(month, category, amount string) LogFields {
	f[FieldMonth] = month
	if category != "" {
		f[FieldCategory] = category
	}
	f[FieldAmount] = amount
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
