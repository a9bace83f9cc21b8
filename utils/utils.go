package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fundacion-api/models"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Session lifetimes: a fixed-lifetime access token plus a refresh token the
// dashboard exchanges while the user stays active.
const (
	AccessTokenTTL  = 2 * time.Hour
	RefreshTokenTTL = 30 * 24 * time.Hour
)

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Details []any  `json:"details,omitempty"`
}

// RespondWithError writes the {"success":false,...} envelope.
func RespondWithError(w http.ResponseWriter, status int, e models.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: false, Error: e.Message, Details: e.Details}); err != nil {
		logrus.WithError(err).Error("failed to encode error response")
	}
}

// ResponseJSON writes the {"success":true,"data":...} envelope with 200.
func ResponseJSON(w http.ResponseWriter, data any) {
	ResponseJSONStatus(w, http.StatusOK, data)
}

func ResponseJSONStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: true, Data: data}); err != nil {
		logrus.WithError(err).Error("failed to encode response")
	}
}

// RespondError maps a store error to its HTTP status and writes the
// envelope. Unrecognized errors become a generic 500 so driver detail never
// leaks to clients.
func RespondError(w http.ResponseWriter, err error) {
	var ve *models.ValidationError
	var ee *models.EligibilityError
	switch {
	case errors.As(err, &ve):
		RespondWithError(w, http.StatusBadRequest, models.Error{Message: ve.Message, Details: ve.Details})
	case errors.As(err, &ee):
		RespondWithError(w, http.StatusBadRequest, models.Error{Message: ee.Error()})
	case errors.Is(err, models.ErrNotFound):
		RespondWithError(w, http.StatusNotFound, models.Error{Message: err.Error()})
	case errors.Is(err, models.ErrDuplicate), errors.Is(err, models.ErrHasRegistrations):
		RespondWithError(w, http.StatusConflict, models.Error{Message: err.Error()})
	case errors.Is(err, models.ErrEventClosed), errors.Is(err, models.ErrCapacityFull):
		RespondWithError(w, http.StatusBadRequest, models.Error{Message: err.Error()})
	case errors.Is(err, models.ErrForbidden):
		RespondWithError(w, http.StatusForbidden, models.Error{Message: err.Error()})
	default:
		logrus.WithError(err).Error("unexpected error")
		RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "error interno del servidor"})
	}
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func ComparePasswords(hashedPassword string, password []byte) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), password)
	return err == nil
}

func secret() ([]byte, error) {
	s := os.Getenv("SECRET")
	if s == "" {
		return nil, errors.New("SECRET environment variable is not set")
	}
	return []byte(s), nil
}

// GenerateAccessToken issues the session token carried on dashboard
// requests. Claims hold only id, name and email.
func GenerateAccessToken(user models.User, expiration time.Duration) (string, error) {
	key, err := secret()
	if err != nil {
		return "", err
	}
	claims := jwt.MapClaims{
		"iss":     "fundacion",
		"user_id": user.ID,
		"name":    user.Name,
		"email":   user.Email,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(expiration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// GenerateRefreshToken issues the long-lived token for /refresh.
func GenerateRefreshToken(user models.User, expiration time.Duration) (string, error) {
	key, err := secret()
	if err != nil {
		return "", err
	}
	claims := jwt.MapClaims{
		"iss":     "fundacion",
		"user_id": user.ID,
		"refresh": true,
		"exp":     time.Now().Add(expiration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

func parseToken(tokenString string) (jwt.MapClaims, error) {
	key, err := secret()
	if err != nil {
		return nil, err
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// VerifyToken checks the Authorization header and returns the session user.
func VerifyToken(r *http.Request) (models.SessionUser, error) {
	var user models.SessionUser

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return user, errors.New("authorization header missing")
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return user, errors.New("invalid authorization header format")
	}

	claims, err := parseToken(parts[1])
	if err != nil {
		return user, err
	}
	if refresh, _ := claims["refresh"].(bool); refresh {
		return user, errors.New("refresh token cannot be used for access")
	}

	id, ok := claims["user_id"].(float64)
	if !ok {
		return user, errors.New("user_id not found in token")
	}
	user.ID = int(id)
	user.Name, _ = claims["name"].(string)
	user.Email, _ = claims["email"].(string)
	return user, nil
}

// VerifyRefreshToken validates a refresh token and returns the user id.
func VerifyRefreshToken(tokenString string) (int, error) {
	claims, err := parseToken(tokenString)
	if err != nil {
		return 0, err
	}
	if refresh, _ := claims["refresh"].(bool); !refresh {
		return 0, errors.New("not a refresh token")
	}
	id, ok := claims["user_id"].(float64)
	if !ok {
		return 0, errors.New("user_id not found in token")
	}
	return int(id), nil
}

func s3Client() (*s3.S3, string, string, error) {
	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	region := os.Getenv("AWS_REGION")
	bucket := os.Getenv("AWS_NEWS_BUCKET")
	if accessKey == "" || secretKey == "" || region == "" || bucket == "" {
		return nil, "", "", errors.New("AWS credentials, region or bucket not set in environment")
	}

	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.NewStaticCredentials(accessKey, secretKey, ""),
	})
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to create AWS session: %v", err)
	}
	return s3.New(sess), bucket, region, nil
}

// UploadImageToS3 stores a news image under a random key and returns its
// public URL.
func UploadImageToS3(file multipart.File, originalName string) (string, error) {
	svc, bucket, region, err := s3Client()
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("news/%s%s", uuid.New().String(), strings.ToLower(filepath.Ext(originalName)))

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, file); err != nil {
		return "", fmt.Errorf("failed to read file buffer: %v", err)
	}

	_, err = svc.PutObject(&s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(buf.Bytes()),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %v", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key), nil
}

// DeleteImageFromS3 removes an object previously uploaded by
// UploadImageToS3, identified by its public URL.
func DeleteImageFromS3(fileURL string) error {
	svc, bucket, region, err := s3Client()
	if err != nil {
		return err
	}

	prefix := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", bucket, region)
	key := strings.TrimPrefix(fileURL, prefix)
	if key == fileURL {
		return fmt.Errorf("url does not belong to bucket %s: %s", bucket, fileURL)
	}

	_, err = svc.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %v", err)
	}
	return nil
}

// SendEmail delivers a plain-text mail through the configured SMTP relay.
// Failures are logged, not returned: mail is best-effort everywhere it is
// used.
func SendEmail(to, subject, body string) {
	from := os.Getenv("SMTP_FROM")
	password := os.Getenv("SMTP_PASSWORD")
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	if from == "" || password == "" || smtpHost == "" || smtpPort == "" {
		logrus.Warn("SMTP not configured, skipping email to " + to)
		return
	}

	auth := smtp.PlainAuth("", from, password, smtpHost)
	msg := []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" + body + "\r\n")

	if err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, []string{to}, msg); err != nil {
		logrus.WithError(err).Error("error sending email")
	}
}
