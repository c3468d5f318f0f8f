package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/bluebook/internal/flow"
	"github.com/mark3labs/bluebook/internal/logger"
	"github.com/mark3labs/bluebook/internal/renewal"
	"github.com/mark3labs/mcp-go/mcp"
)

// resultValid is returned by the validate tools when a section passes.
const resultValid = "valid"

// stringArg returns args[key] as a string. Missing or non-string values read
// as empty so the validation rules report them.
func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func personalFrom(args map[string]any) renewal.PersonalInfo {
	return renewal.PersonalInfo{
		FullName:    stringArg(args, renewal.FieldFullName),
		PhoneNumber: stringArg(args, renewal.FieldPhoneNumber),
	}
}

func vehicleFrom(args map[string]any) renewal.VehicleDetails {
	return renewal.VehicleDetails{
		VehicleName:         stringArg(args, renewal.FieldVehicleName),
		EngineCapacity:      stringArg(args, renewal.FieldEngineCapacity),
		VehicleRegistration: stringArg(args, renewal.FieldVehicleRegistration),
		LastRenewalYear:     stringArg(args, renewal.FieldLastRenewalYear),
	}
}

func pickupFrom(args map[string]any) renewal.PickupDetails {
	return renewal.PickupDetails{
		PickupAddress: stringArg(args, renewal.FieldPickupAddress),
		PickupDate:    stringArg(args, renewal.FieldPickupDate),
		TimeSlot:      stringArg(args, renewal.FieldTimeSlot),
	}
}

// errorsResult renders field errors as a JSON object.
func errorsResult(errs renewal.FieldErrors) *mcp.CallToolResult {
	if errs.Empty() {
		return mcp.NewToolResultText(resultValid)
	}
	data, err := json.Marshal(errs)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: failed to encode errors: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}

func (s *Server) handleValidatePersonal(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return errorsResult(renewal.ValidatePersonalInfo(personalFrom(request.GetArguments()))), nil
}

func (s *Server) handleValidateVehicle(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return errorsResult(renewal.ValidateVehicleDetails(vehicleFrom(request.GetArguments()), s.now())), nil
}

func (s *Server) handleValidatePickup(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return errorsResult(renewal.ValidatePickupDetails(pickupFrom(request.GetArguments()), s.now())), nil
}

// submitOutcome is the JSON body returned by submit-renewal when a section
// fails validation.
type submitOutcome struct {
	Step   string              `json:"step"`
	Errors renewal.FieldErrors `json:"errors"`
}

func outcomeResult(step flow.Step, errs renewal.FieldErrors) *mcp.CallToolResult {
	data, err := json.Marshal(submitOutcome{Step: step.Title(), Errors: errs})
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: failed to encode errors: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}

// handleSubmitRenewal runs a fresh wizard through every step so the
// submission follows the same rules as the terminal flow.
func (s *Server) handleSubmitRenewal(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return mcp.NewToolResultText("error: no arguments provided"), nil
	}

	ctrl := flow.New(flow.WithClock(s.now), flow.StartAtHome())
	if err := ctrl.StartRenewal(); err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}

	errs, err := ctrl.SubmitPersonal(personalFrom(args))
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}
	if !errs.Empty() {
		return outcomeResult(flow.StepPersonal, errs), nil
	}

	errs, err = ctrl.SubmitVehicle(vehicleFrom(args))
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}
	if !errs.Empty() {
		return outcomeResult(flow.StepVehicle, errs), nil
	}

	errs, err = ctrl.Submit(ctx, s.gateway, pickupFrom(args))
	if err != nil {
		logger.Warn("MCP submission failed: %v", err)
		return mcp.NewToolResultText(fmt.Sprintf("error: submission failed: %v", err)), nil
	}
	if !errs.Empty() {
		return outcomeResult(flow.StepPickup, errs), nil
	}

	confirmed, ok := ctrl.State().(flow.Confirmed)
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("error: unexpected state %s", ctrl.State().Name())), nil
	}
	data, err := json.Marshal(confirmed.Receipt)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: failed to encode receipt: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleListRequests(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: failed to list requests: %v", err)), nil
	}
	if len(records) == 0 {
		return mcp.NewToolResultText("[]"), nil
	}
	data, err := json.Marshal(records)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: failed to encode requests: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
