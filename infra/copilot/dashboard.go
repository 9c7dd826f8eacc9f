// Package copilot declares the OpsCopilot stack.
//
// This file contains the operations dashboard.
package copilot

import (
	. "github.com/lex00/opscopilot-aws-go/intrinsics"
	"github.com/lex00/opscopilot-aws-go/resources/cloudwatch"
)

// CopilotDashboard charts both handlers and the CopilotOps namespace.
var CopilotDashboard = cloudwatch.Dashboard{
	DashboardName: "ops-copilot-dashboard",
	DashboardBody: Sub{String: `{
  "widgets": [
    {
      "type": "metric", "x": 0, "y": 0, "width": 12, "height": 6,
      "properties": {
        "title": "Triager", "region": "${AWS::Region}", "stat": "Sum", "period": 300,
        "metrics": [
          ["AWS/Lambda", "Invocations", "FunctionName", "${TriagerFn}"],
          [".", "Errors", ".", "."]
        ]
      }
    },
    {
      "type": "metric", "x": 12, "y": 0, "width": 12, "height": 6,
      "properties": {
        "title": "Approver", "region": "${AWS::Region}", "stat": "Sum", "period": 300,
        "metrics": [
          ["AWS/Lambda", "Invocations", "FunctionName", "${ApproverFn}"],
          [".", "Errors", ".", "."]
        ]
      }
    },
    {
      "type": "metric", "x": 0, "y": 6, "width": 24, "height": 6,
      "properties": {
        "title": "CopilotOps", "region": "${AWS::Region}", "stat": "Sum", "period": 300,
        "metrics": [
          [{"expression": "SEARCH('{CopilotOps}', 'Sum', 300)", "id": "ops", "label": "CopilotOps"}]
        ]
      }
    }
  ]
}`},
}
