package copilot

// Values returns every parameter, resource and output declared in this
// package keyed by logical name. The synthesizer pairs these with the
// declarations it discovers in source.
func Values() map[string]any {
	return map[string]any{
		// Parameters
		"SlackWorkspaceId": SlackWorkspaceId,
		"SlackChannelId":   SlackChannelId,
		"BedrockModel":     BedrockModel,
		"FeatureBedrock":   FeatureBedrock,
		"FeatureAthena":    FeatureAthena,
		"DryRun":           DryRun,
		"AssetBucket":      AssetBucket,
		"TriagerCodeKey":   TriagerCodeKey,
		"ApproverCodeKey":  ApproverCodeKey,

		// Resources
		"OpsCopilotBus":           OpsCopilotBus,
		"TriagerRule":             TriagerRule,
		"TriagerInvokePermission": TriagerInvokePermission,
		"CopilotRunbooks":         CopilotRunbooks,
		"CopilotArtifacts":        CopilotArtifacts,
		"IncidentTimeline":        IncidentTimeline,
		"SlackNotifications":      SlackNotifications,
		"SlackChannel":            SlackChannel,
		"CopilotLambdaRole":       CopilotLambdaRole,
		"ApproverPolicy":          ApproverPolicy,
		"ChatbotRole":             ChatbotRole,
		"TriagerFn":               TriagerFn,
		"ApproverFn":              ApproverFn,
		"CopilotSafeAction":       CopilotSafeAction,
		"CopilotDashboard":        CopilotDashboard,

		// Outputs
		"EventBusArn":     EventBusArn,
		"RunbooksBucket":  RunbooksBucket,
		"ArtifactsBucket": ArtifactsBucket,
		"IncidentTable":   IncidentTable,
	}
}
