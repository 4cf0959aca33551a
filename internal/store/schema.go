package store

// schemaSQL is the trade database schema. Money and strikes are stored as
// integer cents; quantities are stored scaled by 100 to keep fractional
// share lots exact.
const schemaSQL = `
PRAGMA foreign_keys = ON;

CREATE TABLE account_type (
    account_type TEXT NOT NULL,
    PRIMARY KEY (account_type));

CREATE TABLE account (
    account_number TEXT NOT NULL,
    account_type TEXT NOT NULL,
    PRIMARY KEY (account_number)
    FOREIGN KEY (account_type) REFERENCES account_type(account_type)
        ON DELETE CASCADE ON UPDATE CASCADE);

CREATE TABLE equity_class (
    equity_class TEXT NOT NULL,
    PRIMARY KEY (equity_class)
);

CREATE TABLE symbol (
    symbol TEXT NOT NULL,
    description TEXT DEFAULT "" NOT NULL,
    PRIMARY KEY (symbol)
);

CREATE TABLE trade (
    transaction_id TEXT NOT NULL,
    cusip TEXT NOT NULL,
    symbol TEXT NOT NULL,
    account_number TEXT NOT NULL,
    equity_class TEXT NOT NULL,
    strike INTEGER DEFAULT 0 NOT NULL,
    quantity INTEGER NOT NULL,
    expiration DATE DEFAULT NULL,
    acquired_date DATE NOT NULL,
    sold_date DATE NOT NULL,
    cost INTEGER NOT NULL,
    proceed INTEGER NOT NULL,
    description TEXT DEFAULT "" NOT NULL,
    PRIMARY KEY (transaction_id),
    FOREIGN KEY (symbol) REFERENCES symbol(symbol) ON UPDATE CASCADE ON DELETE CASCADE,
    FOREIGN KEY (equity_class) REFERENCES equity_class(equity_class) ON UPDATE CASCADE ON DELETE CASCADE,
    FOREIGN KEY (account_number) REFERENCES account(account_number) ON DELETE CASCADE ON UPDATE CASCADE
);

INSERT INTO equity_class (equity_class)
VALUES
    ('stock'),
    ('call'),
    ('put');

INSERT INTO account_type (account_type)
VALUES
    ('single'),
    ('joint');
`
