package posts

// CreatePostRequest is the payload for creating a post.
type CreatePostRequest struct {
	Text string `json:"text" validate:"required" example:"Just shipped a new release"`
}

// AddCommentRequest is the payload for commenting on a post.
type AddCommentRequest struct {
	Text string `json:"text" validate:"required" example:"Nice work!"`
}

var textMessages = map[string]string{
	"text": "Text is required",
}

// MessageResponse is the body of operations that only confirm an action.
type MessageResponse struct {
	Msg string `json:"msg" example:"Post removed"`
}
