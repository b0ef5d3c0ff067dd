package dto

// ProfileActionForm is a POST to a profile page. On your own profile the
// *_username fields name the other user; elsewhere Action applies to the
// profile owner and an empty Action toggles.
type ProfileActionForm struct {
	FollowUsername   string `form:"follow_username"`
	UnfollowUsername string `form:"unfollow_username"`
	Action           string `form:"action"`
}
