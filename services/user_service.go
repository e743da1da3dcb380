package services

import (
	"context"
	"errors"
	"time"

	"food-delivery-graphql/mail"
	"food-delivery-graphql/models"
	"food-delivery-graphql/token"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const errEmailTaken = "There is a user with that email already"

type UserService struct {
	db     *gorm.DB
	tokens *token.Manager
	mailer mail.Mailer
}

func NewUserService(db *gorm.DB, tokens *token.Manager, mailer mail.Mailer) *UserService {
	return &UserService{db: db, tokens: tokens, mailer: mailer}
}

// CreateAccount registers a user and mails a verification code
func (s *UserService) CreateAccount(ctx context.Context, in CreateAccountInput) CreateAccountOutput {
	taken, err := s.emailTaken(ctx, in.Email, 0)
	if err != nil {
		log.Error().Err(err).Str("op", "createAccount").Msg("email lookup failed")
		return CreateAccountOutput{fail("Couldn't create user")}
	}
	if taken {
		return CreateAccountOutput{fail(errEmailTaken)}
	}

	user := models.User{Email: in.Email, Role: in.Role}
	user.SetPassword(in.Password)
	var verification models.Verification

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		verification = models.Verification{UserID: user.ID}
		return tx.Omit(clause.Associations).Create(&verification).Error
	})
	if err != nil {
		log.Error().Err(err).Str("op", "createAccount").Msg("could not persist user")
		return CreateAccountOutput{fail("Couldn't create user")}
	}

	s.mailer.SendVerificationEmail(user.Email, verification.Code)
	return CreateAccountOutput{ok()}
}

// Login checks credentials and issues a token keyed on the user id
func (s *UserService) Login(ctx context.Context, in LoginInput) LoginOutput {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", in.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return LoginOutput{CoreOutput: fail("User not found.")}
	}
	if err != nil {
		log.Error().Err(err).Str("op", "login").Msg("user lookup failed")
		return LoginOutput{CoreOutput: fail("Can't log user in.")}
	}

	match, err := user.CheckPassword(in.Password)
	if err != nil {
		log.Error().Err(err).Str("op", "login").Msg("password check failed")
		return LoginOutput{CoreOutput: fail("Can't log user in.")}
	}
	if !match {
		return LoginOutput{CoreOutput: fail("Wrong password")}
	}

	signed, err := s.tokens.Sign(user.ID)
	if err != nil {
		log.Error().Err(err).Str("op", "login").Msg("token signing failed")
		return LoginOutput{CoreOutput: fail("Can't log user in.")}
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&user).UpdateColumn("last_login", now).Error; err != nil {
		log.Warn().Err(err).Uint("user_id", user.ID).Msg("could not stamp last login")
	}
	return LoginOutput{CoreOutput: ok(), Token: signed}
}

func (s *UserService) FindByID(ctx context.Context, id uint) UserProfileOutput {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error().Err(err).Str("op", "findById").Msg("user lookup failed")
		}
		return UserProfileOutput{CoreOutput: fail("User Not Found")}
	}
	return UserProfileOutput{CoreOutput: ok(), User: &user}
}

// EditProfile updates email and/or password. Any email edit resets
// verification and replaces the pending code.
func (s *UserService) EditProfile(ctx context.Context, userID uint, in EditProfileInput) EditProfileOutput {
	const generic = "Could not update profile"

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EditProfileOutput{fail("User Not Found")}
		}
		log.Error().Err(err).Str("op", "editProfile").Msg("user lookup failed")
		return EditProfileOutput{fail(generic)}
	}

	if in.Email != nil {
		taken, err := s.emailTaken(ctx, *in.Email, user.ID)
		if err != nil {
			log.Error().Err(err).Str("op", "editProfile").Msg("email lookup failed")
			return EditProfileOutput{fail(generic)}
		}
		if taken {
			return EditProfileOutput{fail(errEmailTaken)}
		}
		user.Email = *in.Email
		user.Verified = false
	}
	if in.Password != nil {
		user.SetPassword(*in.Password)
	}

	var verification *models.Verification
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(&user).Error; err != nil {
			return err
		}
		if in.Email == nil {
			return nil
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Verification{}).Error; err != nil {
			return err
		}
		verification = &models.Verification{UserID: user.ID}
		return tx.Omit(clause.Associations).Create(verification).Error
	})
	if err != nil {
		log.Error().Err(err).Str("op", "editProfile").Uint("user_id", user.ID).Msg("could not save profile")
		return EditProfileOutput{fail(generic)}
	}

	if verification != nil {
		s.mailer.SendVerificationEmail(user.Email, verification.Code)
	}
	return EditProfileOutput{ok()}
}

// VerifyEmail consumes a one-time code and marks its user verified
func (s *UserService) VerifyEmail(ctx context.Context, code string) VerifyEmailOutput {
	var verification models.Verification
	err := s.db.WithContext(ctx).Where("code = ?", code).First(&verification).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return VerifyEmailOutput{fail("Verification not found.")}
	}
	if err != nil {
		log.Error().Err(err).Str("op", "verifyEmail").Msg("verification lookup failed")
		return VerifyEmailOutput{fail("Could not verify email.")}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", verification.UserID).
			UpdateColumn("verified", true).Error; err != nil {
			return err
		}
		return tx.Delete(&verification).Error
	})
	if err != nil {
		log.Error().Err(err).Str("op", "verifyEmail").Msg("could not consume verification")
		return VerifyEmailOutput{fail("Could not verify email.")}
	}
	return VerifyEmailOutput{ok()}
}

func (s *UserService) emailTaken(ctx context.Context, email string, exceptID uint) (bool, error) {
	var count int64
	q := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
