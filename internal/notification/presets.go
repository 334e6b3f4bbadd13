package notification

import "github.com/frahmantamala/funcionarios/internal/i18n"

type CRUDNotifier struct{ s *Service }

func (c CRUDNotifier) entity(entity string) string {
	if entity == "" {
		return c.s.translator.T(i18n.NotifyDefaultEntity)
	}
	return entity
}

func (c CRUDNotifier) Created(entity string) Notification {
	return c.s.Success(c.s.translator.T(i18n.NotifyCreated, c.entity(entity)))
}

func (c CRUDNotifier) Updated(entity string) Notification {
	return c.s.Success(c.s.translator.T(i18n.NotifyUpdated, c.entity(entity)))
}

func (c CRUDNotifier) Deleted(entity string) Notification {
	return c.s.Success(c.s.translator.T(i18n.NotifyDeleted, c.entity(entity)))
}

// Error reports a failed action such as "criar" on entity.
func (c CRUDNotifier) Error(action, entity string) Notification {
	if action == "" {
		action = c.s.translator.T(i18n.NotifyDefaultAction)
	}
	return c.s.Error(c.s.translator.T(i18n.NotifyCrudError, action, c.entity(entity)))
}

type AuthNotifier struct{ s *Service }

func (a AuthNotifier) LoginSuccess() Notification {
	return a.s.Success(a.s.translator.T(i18n.NotifyLoginSuccess))
}

func (a AuthNotifier) LoginError() Notification {
	return a.s.Error(a.s.translator.T(i18n.NotifyLoginError))
}

func (a AuthNotifier) RegisterSuccess() Notification {
	return a.s.Success(a.s.translator.T(i18n.NotifyRegisterSuccess))
}

// RegisterError shows message, or a generic failure when it is empty.
func (a AuthNotifier) RegisterError(message string) Notification {
	if message == "" {
		message = a.s.translator.T(i18n.NotifyRegisterError)
	}
	return a.s.Error(message)
}

func (a AuthNotifier) LogoutSuccess() Notification {
	return a.s.Info(a.s.translator.T(i18n.NotifyLogoutSuccess))
}

func (a AuthNotifier) SessionExpired() Notification {
	return a.s.Warning(a.s.translator.T(i18n.NotifySessionExpired))
}

type ValidationNotifier struct{ s *Service }

func (v ValidationNotifier) RequiredFields() Notification {
	return v.s.Warning(v.s.translator.T(i18n.NotifyRequiredFields))
}

func (v ValidationNotifier) InvalidEmail() Notification {
	return v.s.Error(v.s.translator.T(i18n.NotifyInvalidEmail))
}

func (v ValidationNotifier) PasswordMismatch() Notification {
	return v.s.Error(v.s.translator.T(i18n.NotifyPasswordMismatch))
}

func (v ValidationNotifier) WeakPassword() Notification {
	return v.s.Warning(v.s.translator.T(i18n.NotifyWeakPassword))
}

type NetworkNotifier struct{ s *Service }

func (n NetworkNotifier) Offline() Notification {
	return n.s.Error(n.s.translator.T(i18n.NotifyOffline))
}

func (n NetworkNotifier) Reconnected() Notification {
	return n.s.Success(n.s.translator.T(i18n.NotifyReconnected))
}

func (n NetworkNotifier) Timeout() Notification {
	return n.s.Error(n.s.translator.T(i18n.NotifyTimeout))
}
