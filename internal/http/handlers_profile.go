package http

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"fintrack/internal/api"
	applog "fintrack/internal/log"
	"fintrack/internal/session"
)

// maxAvatarBytes caps the in-memory portion of the avatar upload.
const maxAvatarBytes = 8 << 20

type profilePageData struct {
	Username   string
	Email      string
	FullName   string
	BirthDate  string
	Gender     string
	Balance    string
	DateJoined string
	LastLogin  string
	Active     bool
	AvatarURL  string
	Error      string
}

func genderDisplay(code string) string {
	switch code {
	case "M":
		return "Male"
	case "F":
		return "Female"
	case "O":
		return "Other"
	default:
		return code
	}
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request, sess session.Session) {
	profile, err := s.profiles.Profile(r.Context(), sess.Token)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			s.expireSession(w, r, sess)
			return
		}
		slog.ErrorContext(r.Context(), "Failed to load profile", applog.FieldError, err)
		s.render(w, r, http.StatusOK, "profile.html", profilePageData{
			Error: api.UserMessage(err),
		})
		return
	}

	data := profilePageData{
		Username:   profile.Username,
		Email:      profile.Email,
		FullName:   fullName(profile.FirstName, profile.LastName),
		BirthDate:  profile.BirthDate,
		Gender:     genderDisplay(profile.Gender),
		Balance:    profile.Balance,
		DateJoined: profile.DateJoined,
		LastLogin:  profile.LastLogin,
		Active:     profile.Active,
		AvatarURL:  profile.AvatarURL,
	}
	s.render(w, r, http.StatusOK, "profile.html", data)
}

func fullName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}

func (s *Server) handleAvatarUpload(w http.ResponseWriter, r *http.Request, sess session.Session) {
	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		UnprocessableEntityError("Choose an image file first.").Write(w)
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		UnprocessableEntityError("Choose an image file first.").Write(w)
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size == 0 {
		UnprocessableEntityError("The selected file is empty.").Write(w)
		return
	}

	url, err := s.profiles.UploadAvatar(r.Context(), sess.Token, header.Filename, file)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			s.expireSession(w, r, sess)
			return
		}
		slog.ErrorContext(r.Context(), "Avatar upload failed", applog.FieldError, err)
		BadGatewayError(api.UserMessage(err)).
			TriggerErrorNotification(api.UserMessage(err)).
			Write(w)
		return
	}

	// Cache-bust so the browser drops the previous picture immediately.
	busted := url + "?t=" + uuid.NewString()

	slog.InfoContext(r.Context(), "Avatar updated", applog.FieldSessionID, sess.ID)

	NewHTMXResponse().
		TriggerAvatarUpdated(busted).
		TriggerSuccessNotification("Profile picture updated.").
		BodyHTML(fmt.Sprintf(`<img id="avatar" class="avatar" src="%s" alt="Profile picture">`,
			template.HTMLEscapeString(busted))).
		Write(w)
}
