package tools

import "github.com/mark3labs/mcp-go/mcp"

// InputSchema returns the JSON schema of the spec's arguments.
func (s Spec) InputSchema() mcp.ToolInputSchema {
	schema := mcp.ToolInputSchema{
		Type:       "object",
		Properties: make(map[string]any, len(s.Params)),
	}
	for _, p := range s.Params {
		schema.Properties[p.Name] = p.Schema()
		if p.Required {
			schema.Required = append(schema.Required, p.Name)
		}
	}
	return schema
}

// Schema returns the JSON schema of one parameter.
func (p Param) Schema() map[string]any {
	out := map[string]any{"type": string(p.Type)}
	if p.Description != "" {
		out["description"] = p.Description
	}
	if p.Default != nil {
		out["default"] = p.Default
	}
	if p.MinLength > 0 {
		out["minLength"] = p.MinLength
	}
	if p.MaxLength > 0 {
		out["maxLength"] = p.MaxLength
	}
	if p.Minimum != nil {
		if p.ExclusiveMinimum {
			out["exclusiveMinimum"] = *p.Minimum
		} else {
			out["minimum"] = *p.Minimum
		}
	}
	if p.Maximum != nil {
		out["maximum"] = *p.Maximum
	}
	return out
}

// MCPTool returns the MCP tool definition of a spec.
func MCPTool(s Spec) mcp.Tool {
	return mcp.Tool{
		Name:        string(s.Command),
		Description: s.Description,
		InputSchema: s.InputSchema(),
		Annotations: mcp.ToolAnnotation{
			Title:           s.Title,
			ReadOnlyHint:    mcp.ToBoolPtr(s.ReadOnly),
			DestructiveHint: mcp.ToBoolPtr(s.Destructive),
			OpenWorldHint:   mcp.ToBoolPtr(false),
		},
	}
}
