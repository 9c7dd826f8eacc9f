// Package copilot declares the OpsCopilot stack.
//
// This file contains the event bus and the rule routing events to the triager.
package copilot

import (
	. "github.com/lex00/opscopilot-aws-go/intrinsics"
	"github.com/lex00/opscopilot-aws-go/resources/events"
	"github.com/lex00/opscopilot-aws-go/resources/lambda"
)

// ----------------------------------------------------------------------------
// Event Bus
// ----------------------------------------------------------------------------

// OpsCopilotBus receives operational events from producers.
var OpsCopilotBus = events.EventBus{
	Name: EventBusName,
}

// ----------------------------------------------------------------------------
// Triage routing
// ----------------------------------------------------------------------------

// TriagerTarget sends matched events to the triager.
var TriagerTarget = events.Rule_Target{
	Id:  "TriagerFn",
	Arn: TriagerFn.Arn,
}

// TriagerRule matches every event that carries a source field.
var TriagerRule = events.Rule{
	Description:  "Route bus events to the OpsCopilot triager",
	EventBusName: OpsCopilotBus,
	EventPattern: Json{
		"source": []any{Json{"exists": true}},
	},
	State:   "ENABLED",
	Targets: []any{TriagerTarget},
}

// TriagerInvokePermission lets EventBridge invoke the triager from TriagerRule.
var TriagerInvokePermission = lambda.Permission{
	Action:       "lambda:InvokeFunction",
	FunctionName: TriagerFn,
	Principal:    "events.amazonaws.com",
	SourceArn:    TriagerRule.Arn,
}
