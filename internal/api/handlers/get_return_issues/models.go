package get_return_issues

import (
	"time"

	"github.com/bindrop/BDR-RentalService/internal/domain"
)

// ReturnIssueResponse HTTP response model
type ReturnIssueResponse struct {
	ID         int64   `json:"id"`
	Item       string  `json:"item"`
	Kind       string  `json:"kind"`
	FeeCharged *string `json:"feeCharged,omitempty"`
	CreatedAt  string  `json:"createdAt"`
}

// ReturnIssueListResponse список проблем возврата
type ReturnIssueListResponse struct {
	BookingID int64                  `json:"bookingId"`
	Issues    []*ReturnIssueResponse `json:"issues"`
}

// FromDomainIssues конвертирует domain проблемы в HTTP response
func FromDomainIssues(bookingID int64, issues []*domain.ReturnIssue) *ReturnIssueListResponse {
	resp := &ReturnIssueListResponse{
		BookingID: bookingID,
		Issues:    make([]*ReturnIssueResponse, 0, len(issues)),
	}
	for _, issue := range issues {
		item := &ReturnIssueResponse{
			ID:        issue.ID,
			Item:      issue.Item,
			Kind:      string(issue.Kind),
			CreatedAt: issue.CreatedAt.Format(time.RFC3339),
		}
		if issue.FeeCharged != nil {
			fee := issue.FeeCharged.StringFixed(2)
			item.FeeCharged = &fee
		}
		resp.Issues = append(resp.Issues, item)
	}
	return resp
}
