package model

import "time"

// RequestStatus enumerates the states of a bill edit request.
// PENDING requests await an approver; APPROVED requests await the
// actual amendment call, which marks them COMPLETED.  REJECTED is
// terminal.
type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDING"
	RequestApproved  RequestStatus = "APPROVED"
	RequestRejected  RequestStatus = "REJECTED"
	RequestCompleted RequestStatus = "COMPLETED"
)

// BillEditRequest is a staff member's request to amend an archived
// bill.  Approval authorizes the edit; the edit itself is a separate
// call that completes the request.
//
// Fields:
//  ID            – primary key identifier.
//  StoreID       – store (tenant) the request belongs to.
//  OrderID       – archived order the request targets.
//  RequestedBy   – id of the staff member who asked.
//  RequestedName – display name of the requester (denormalized for the log).
//  Reason        – free-text justification.
//  Status        – PENDING, APPROVED, REJECTED or COMPLETED.
//  CreatedAt     – when the request was made.
//  ResolvedBy    – name of the approver/rejecter (nil while PENDING).
//  ResolvedAt    – when the decision was made (nil while PENDING).
type BillEditRequest struct {
	ID            string        // bill_edit_requests.id
	StoreID       string        // bill_edit_requests.store_id
	OrderID       string        // bill_edit_requests.order_id
	RequestedBy   string        // bill_edit_requests.requested_by
	RequestedName string        // bill_edit_requests.requested_name
	Reason        string        // bill_edit_requests.reason
	Status        RequestStatus // bill_edit_requests.status
	CreatedAt     time.Time     // bill_edit_requests.created_at
	ResolvedBy    *string       // bill_edit_requests.resolved_by (nullable)
	ResolvedAt    *time.Time    // bill_edit_requests.resolved_at (nullable)
}
