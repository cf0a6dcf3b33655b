package domain

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserExists           = errors.New("user already exists")
	ErrPetDead              = errors.New("pet is dead")
	ErrPetAlive             = errors.New("pet is alive")
	ErrPetAsleep            = errors.New("pet is asleep")
	ErrPetAwake             = errors.New("pet is awake")
	ErrPetAtWork            = errors.New("pet is at work")
	ErrPetNotAtWork         = errors.New("pet is not at work")
	ErrWorkLimitReached     = errors.New("daily work limit reached")
	ErrHobbyNotFound        = errors.New("hobby not found")
	ErrHobbyLocked          = errors.New("hobby is not unlocked")
	ErrHobbyOwned           = errors.New("hobby already unlocked")
	ErrNotEnoughMoney       = errors.New("not enough money")
	ErrInvalidInput         = errors.New("invalid input")
	ErrSelfFriendship       = errors.New("cannot befriend yourself")
	ErrAlreadyFriends       = errors.New("already friends")
	ErrNotFriends           = errors.New("not friends")
	ErrTooManyParticipants  = errors.New("too many participants")
	ErrMembershipUnverified = errors.New("channel membership could not be verified")
	ErrNotChannelMember     = errors.New("user is not a channel member")
	ErrPetOnVacation        = errors.New("pet is on vacation")
	ErrAdviceAlreadyShown   = errors.New("advice already shown today")
	ErrNotSleeping          = errors.New("sleep was not recorded")
)
