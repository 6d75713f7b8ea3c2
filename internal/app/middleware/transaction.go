package middleware

import (
	"context"
	"errors"

	"staybook/internal/app/commands"
	"staybook/internal/app/uow"
)

var ErrUnitOfWorkMissing = errors.New("middleware: unit of work not found")

// TransactionalCommand opts a command into the middleware-managed
// transaction. The booking lifecycle commands manage their own unit of work
// instead, because they fire notifications strictly after commit.
type TransactionalCommand interface {
	commands.Command
	Transactional() bool
}

func Transaction(factory uow.UoWFactory) CommandMiddleware {
	if factory == nil {
		panic("middleware: uow factory required")
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			txCmd, ok := cmd.(TransactionalCommand)
			if !ok || !txCmd.Transactional() {
				return nextFn(ctx, cmd)
			}
			unit, err := factory.Begin(ctx, uow.TxOptions{})
			if err != nil {
				return nil, err
			}
			execCtx := uow.Bind(ctx, unit)
			committed := false
			defer func() {
				if !committed {
					_ = unit.Rollback(execCtx)
				}
			}()

			res, err := nextFn(execCtx, cmd)
			if err != nil {
				return nil, err
			}
			if err := unit.Commit(execCtx); err != nil {
				return nil, err
			}
			committed = true
			return res, nil
		})
	}
}
