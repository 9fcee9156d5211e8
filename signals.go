package stoplight

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for anonymization events.
var (
	SignalDeclared          = capitan.NewSignal("stoplight.declared", "Mapping declared for a record type")
	SignalHookRegistered    = capitan.NewSignal("stoplight.hook.registered", "Before-save hook registered with a host")
	SignalAnonymizeStart    = capitan.NewSignal("stoplight.anonymize.start", "Anonymization of an instance beginning")
	SignalAnonymizeComplete = capitan.NewSignal("stoplight.anonymize.complete", "Anonymization of an instance finished")
)

// Keys for typed event data.
var (
	KeyTypeName      = capitan.NewStringKey("type_name")
	KeyField         = capitan.NewStringKey("field")
	KeyRuleCount     = capitan.NewIntKey("rule_count")
	KeyAppliedCount  = capitan.NewIntKey("applied_count")
	KeyUpdatedFields = capitan.NewIntKey("updated_fields")
	KeyDuration      = capitan.NewDurationKey("duration")
	KeyError         = capitan.NewErrorKey("error")
)

// emitDeclared emits an event when a mapping is declared.
func emitDeclared(ctx context.Context, typeName string, rules int) {
	capitan.Emit(ctx, SignalDeclared,
		KeyTypeName.Field(typeName),
		KeyRuleCount.Field(rules),
	)
}

// emitHookRegistered emits an event when the hook is attached to a record type.
func emitHookRegistered(ctx context.Context, typeName string, rules int) {
	capitan.Emit(ctx, SignalHookRegistered,
		KeyTypeName.Field(typeName),
		KeyRuleCount.Field(rules),
	)
}

// emitAnonymizeStart emits an event when anonymization begins.
func emitAnonymizeStart(ctx context.Context, typeName string, rules, updated int) {
	capitan.Emit(ctx, SignalAnonymizeStart,
		KeyTypeName.Field(typeName),
		KeyRuleCount.Field(rules),
		KeyUpdatedFields.Field(updated),
	)
}

// emitAnonymizeComplete emits an event when anonymization finishes.
// On failure the event carries the field that failed and the error.
func emitAnonymizeComplete(ctx context.Context, typeName string, duration time.Duration, applied int, field string, err error) {
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeyDuration.Field(duration),
		KeyAppliedCount.Field(applied),
	}
	if err != nil {
		fields = append(fields, KeyField.Field(field), KeyError.Field(err))
		capitan.Error(ctx, SignalAnonymizeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalAnonymizeComplete, fields...)
	}
}
